package queue

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prasadk19/postdeck/internal/repository"
	"github.com/prasadk19/postdeck/internal/service"
)

const TaskTypeDeliverPost = "post:deliver"

type DeliverPostPayload struct {
	PostID int64 `json:"post_id"`
}

// Worker delivers scheduled posts when their time comes and records the
// terminal state.
type Worker struct {
	pr repository.PostRepository
	li service.LinkedInService
}

func NewWorker(pr repository.PostRepository, li service.LinkedInService) *Worker {
	return &Worker{
		pr: pr,
		li: li,
	}
}

// EnqueueDeliver queues a delivery task to fire after delay.
func EnqueueDeliver(asynqClient *asynq.Client, payload DeliverPostPayload, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeDeliverPost, taskPayload)

	_, err = asynqClient.Enqueue(task, asynq.ProcessIn(delay))
	if err != nil {
		return err
	}

	log.Printf("Delivery scheduled: %+v", payload)
	return nil
}
