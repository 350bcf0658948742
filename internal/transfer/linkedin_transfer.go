package transfer

type LinkedInSharePayload struct {
	Author          string `json:"author"`
	LifecycleState  string `json:"lifecycleState"`
	SpecificContent struct {
		ShareContent struct {
			ShareCommentary struct {
				Text string `json:"text"`
			} `json:"shareCommentary"`
			ShareMediaCategory string `json:"shareMediaCategory"`
		} `json:"com.linkedin.ugc.ShareContent"`
	} `json:"specificContent"`
	Visibility struct {
		MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
	} `json:"visibility"`
}

type LinkedInShareStats struct {
	ImpressionCount        int64 `json:"impressionCount"`
	UniqueImpressionsCount int64 `json:"uniqueImpressionsCount"`
	ClickCount             int64 `json:"clickCount"`
	ShareCount             int64 `json:"shareCount"`
	LikesSummary           struct {
		TotalLikes int64 `json:"totalLikes"`
	} `json:"likesSummary"`
	CommentsSummary struct {
		TotalComments int64 `json:"totalFirstLevelComments"`
	} `json:"commentsSummary"`
}
