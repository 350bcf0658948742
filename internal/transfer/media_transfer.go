package transfer

type MediaRenameRequest struct {
	AssetID  int64  `json:"asset_id"`
	Filename string `json:"filename"`
}

type MediaTagsRequest struct {
	AssetID int64    `json:"asset_id"`
	Tags    []string `json:"tags"`
}

type MediaRemoveRequest struct {
	AssetID int64 `json:"asset_id"`
}
