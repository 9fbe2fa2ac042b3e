// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package queue implements the queue construct: a message queue wired to
// a dead-letter queue that collects messages failing repeatedly.
package queue

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/construct/registry"
	"github.com/platform-engineering-labs/stratum/pkg/model"
	"github.com/platform-engineering-labs/stratum/pkg/provision"
)

const TypeID = "queue"

const (
	DefaultMaxRetries = 3
	// failed messages are kept as long as the platform allows so they
	// can be retried
	dlqRetentionDays = 14
)

var Descriptor = construct.Descriptor{
	Type:     TypeID,
	Doc:      "Message queue with a dead-letter queue for failed messages",
	Commands: []string{"retry-failed", "purge-failed"},
}

var Schema = model.Schema{
	Fields: map[string]model.Field{
		"name": {
			Type:    model.FieldTypeString,
			Pattern: `^[a-z][a-z0-9-]*$`,
			Doc:     "Resource name, defaults to {stack}-{id}",
		},
		"maxRetries": {
			Type:    model.FieldTypeInteger,
			Minimum: int64Ptr(1),
			Doc:     "Deliveries before a message moves to the dead-letter queue",
		},
		"visibilityTimeout": {
			Type:    model.FieldTypeInteger,
			Minimum: int64Ptr(0),
			Doc:     "Seconds a received message stays hidden",
		},
		"delay": {
			Type:    model.FieldTypeInteger,
			Minimum: int64Ptr(0),
			Doc:     "Delivery delay in seconds",
		},
		"fifo": {
			Type: model.FieldTypeBoolean,
			Doc:  "Strict ordering and exactly-once delivery",
		},
	},
}

func init() {
	registry.Register(TypeID, Descriptor, Schema, New)
}

type Config struct {
	Name              string `json:"name"`
	MaxRetries        int    `json:"maxRetries"`
	VisibilityTimeout int    `json:"visibilityTimeout"`
	Delay             int    `json:"delay"`
	Fifo              bool   `json:"fifo"`
}

type Queue struct {
	ctx construct.Context

	queue *provision.Handle
	dlq   *provision.Handle

	urlOutput construct.Output
}

var _ construct.Construct = &Queue{}

func New(ctx construct.Context, raw json.RawMessage) (construct.Construct, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, construct.NewConfigurationError(
			construct.ErrorCodeInvalidConstructConfiguration, ctx.LogicalID,
			"failed to decode configuration: %v", err)
	}

	q := &Queue{ctx: ctx}

	resourceName := ctx.ResourceName(cfg.Name)
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}

	var err error
	q.dlq, err = ctx.Engine.Declare(provision.Resource{
		LogicalID: "dlq",
		Type:      "Queue::Queue",
		Properties: map[string]any{
			"Name":          resourceName + "-dlq",
			"Fifo":          cfg.Fifo,
			"RetentionDays": dlqRetentionDays,
		},
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}

	q.queue, err = ctx.Engine.Declare(provision.Resource{
		LogicalID: "queue",
		Type:      "Queue::Queue",
		Properties: map[string]any{
			"Name":              resourceName,
			"Fifo":              cfg.Fifo,
			"VisibilityTimeout": cfg.VisibilityTimeout,
			"DeliveryDelay":     cfg.Delay,
			"Redrive": map[string]any{
				"Target":     q.dlq.Attr("Id"),
				"MaxRetries": maxRetries,
			},
		},
		DependsOn: []string{"dlq"},
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}

	urlHandle, err := ctx.Engine.Output("queueUrl", q.queue.Attr("Url"))
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}
	q.urlOutput = construct.NewOutput(urlHandle, ctx.Env)

	return q, nil
}

func (q *Queue) Outputs() map[string]construct.Output {
	return map[string]construct.Output{
		"queueUrl": q.urlOutput,
	}
}

func (q *Queue) Variables() map[string]construct.Variable {
	return map[string]construct.Variable{
		"queueUrl": construct.NewVariable(q.queue.Attr("Url")),
		"queueArn": construct.NewVariable(q.queue.Attr("Arn")),
		"dlqUrl":   construct.NewVariable(q.dlq.Attr("Url")),
	}
}

func (q *Queue) Commands() map[string]construct.Command {
	return map[string]construct.Command{
		"retry-failed": {
			Doc: "Move messages from the dead-letter queue back to the main queue",
			Run: q.retryFailed,
		},
		"purge-failed": {
			Doc: "Delete all messages from the dead-letter queue",
			Run: q.purgeFailed,
		},
	}
}

func (q *Queue) retryFailed(ctx context.Context) error {
	source, err := q.ctx.Env.StackOutput(ctx, q.urlOutput.Key())
	if err != nil {
		return fmt.Errorf("queue is not deployed yet: %w", err)
	}
	return q.ctx.Invoke(ctx, "queue.redrive", map[string]string{
		"queueUrl": source,
	})
}

func (q *Queue) purgeFailed(ctx context.Context) error {
	source, err := q.ctx.Env.StackOutput(ctx, q.urlOutput.Key())
	if err != nil {
		return fmt.Errorf("queue is not deployed yet: %w", err)
	}
	return q.ctx.Invoke(ctx, "queue.purge-dlq", map[string]string{
		"queueUrl": source,
	})
}

func int64Ptr(v int64) *int64 {
	return &v
}
