package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prasadk19/postdeck/internal/models"
)

func (w *Worker) HandleDeliverPostTask(ctx context.Context, task *asynq.Task) error {
	var payload DeliverPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return w.DeliverPost(ctx, payload.PostID)
}

// DeliverPost publishes a scheduled post and flips its status to published
// or failed. Posts that were rescheduled, removed, or already delivered
// since the task was enqueued are skipped.
func (w *Worker) DeliverPost(ctx context.Context, postID int64) error {
	post, err := w.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		log.Printf("Post %d no longer exists, skipping delivery", postID)
		return nil
	}
	if post.Status != models.PostStatusScheduled {
		log.Printf("Post %d is %s, skipping delivery", postID, post.Status)
		return nil
	}
	if post.ScheduledFor != nil && time.Until(*post.ScheduledFor) > time.Minute {
		// The post was pushed out after this task was enqueued.
		log.Printf("Post %d was rescheduled, skipping delivery", postID)
		return nil
	}

	if err := w.li.PublishPost(ctx, post); err != nil {
		log.Printf("Error delivering post %d: %v", postID, err)
		if updateErr := w.pr.UpdateStatus(ctx, models.PostStatusFailed, nil, postID); updateErr != nil {
			log.Printf("Error marking post %d failed: %v", postID, updateErr)
		}
		return nil
	}

	now := time.Now()
	if err := w.pr.UpdateStatus(ctx, models.PostStatusPublished, &now, postID); err != nil {
		log.Printf("Error marking post %d published: %v", postID, err)
		return err
	}

	return nil
}
