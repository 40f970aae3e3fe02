package contracts

import (
	"context"
	"mindhub-service/internal/app/services/shared/submissionqueue"
)

type SubmissionQueue interface {
	Enqueue(ctx context.Context, in *submissionqueue.EnqueueInput) (*submissionqueue.EnqueueOutput, error)
	Reenqueue(ctx context.Context, in *submissionqueue.ReenqueueInput) (*submissionqueue.ReenqueueOutput, error)
	EnqueueToDeadQueue(ctx context.Context, in *submissionqueue.EnqueueToDLQInput) (*submissionqueue.EnqueueToDLQOutput, error)
	FetchN(ctx context.Context, in *submissionqueue.FetchNInput) (*submissionqueue.FetchNOutput, error)
	AckMessage(ctx context.Context, in *submissionqueue.AckMessageInput) (*submissionqueue.AckMessageOutput, error)
}
