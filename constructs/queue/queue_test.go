// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package queue

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/environment"
	"github.com/platform-engineering-labs/stratum/pkg/provision"
)

type recordingOperator struct {
	ops []construct.Operation
}

func (r *recordingOperator) Invoke(_ context.Context, op construct.Operation) error {
	r.ops = append(r.ops, op)
	return nil
}

func testContext(stack, logicalID string, env *environment.Static, ops construct.Operator) (construct.Context, *provision.Template) {
	template := provision.NewTemplate(stack)
	if env == nil {
		env = &environment.Static{Stack: stack}
	}
	return construct.Context{
		LogicalID: logicalID,
		Env:       env,
		Engine:    template.Scope(logicalID),
		Ops:       ops,
	}, template
}

func TestNewWiresDeadLetterQueue(t *testing.T) {
	ctx, template := testContext("app-dev", "jobs", nil, nil)

	q, err := New(ctx, json.RawMessage(`{}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"jobs.dlq", "jobs.queue"}, template.ResourceIDs())

	doc, err := template.Build()
	require.NoError(t, err)

	dlqName, _ := doc.Get(`Resources.jobs\.dlq.Properties.Name`)
	assert.Equal(t, "app-dev-jobs-dlq", dlqName)
	retention, _ := doc.Get(`Resources.jobs\.dlq.Properties.RetentionDays`)
	assert.Equal(t, "14", retention)

	queueName, _ := doc.Get(`Resources.jobs\.queue.Properties.Name`)
	assert.Equal(t, "app-dev-jobs", queueName)

	target, _ := doc.Get(`Resources.jobs\.queue.Properties.Redrive.Target.$get`)
	assert.JSONEq(t, `["jobs.dlq","Id"]`, target)
	retries, _ := doc.Get(`Resources.jobs\.queue.Properties.Redrive.MaxRetries`)
	assert.Equal(t, "3", retries)

	dep, _ := doc.Get(`Resources.jobs\.queue.DependsOn.0`)
	assert.Equal(t, "jobs.dlq", dep)

	url, _ := doc.Get(`Outputs.jobs\.queueUrl.$get`)
	assert.JSONEq(t, `["jobs.queue","Url"]`, url)

	vars := q.Variables()
	assert.Contains(t, vars, "queueUrl")
	assert.Contains(t, vars, "queueArn")
	assert.Contains(t, vars, "dlqUrl")
}

func TestNewFifoAndTimeouts(t *testing.T) {
	ctx, template := testContext("app-dev", "jobs", nil, nil)

	_, err := New(ctx, json.RawMessage(`{"fifo":true,"visibilityTimeout":120,"delay":5,"maxRetries":10}`))
	require.NoError(t, err)

	doc, err := template.Build()
	require.NoError(t, err)

	fifo, _ := doc.Get(`Resources.jobs\.queue.Properties.Fifo`)
	assert.Equal(t, "true", fifo)
	dlqFifo, _ := doc.Get(`Resources.jobs\.dlq.Properties.Fifo`)
	assert.Equal(t, "true", dlqFifo)
	timeout, _ := doc.Get(`Resources.jobs\.queue.Properties.VisibilityTimeout`)
	assert.Equal(t, "120", timeout)
	delay, _ := doc.Get(`Resources.jobs\.queue.Properties.DeliveryDelay`)
	assert.Equal(t, "5", delay)
	retries, _ := doc.Get(`Resources.jobs\.queue.Properties.Redrive.MaxRetries`)
	assert.Equal(t, "10", retries)
}

func TestRetryFailedDispatchesRedrive(t *testing.T) {
	operator := &recordingOperator{}
	env := &environment.Static{
		Stack: "app-dev",
		Outputs: map[string]string{
			"jobs.queueUrl": "https://queues.example.com/app-dev-jobs",
		},
	}
	ctx, _ := testContext("app-dev", "jobs", env, operator)

	q, err := New(ctx, json.RawMessage(`{}`))
	require.NoError(t, err)

	retry := q.Commands()["retry-failed"]
	require.NotNil(t, retry.Run)
	require.NoError(t, retry.Run(context.Background()))

	require.Len(t, operator.ops, 1)
	assert.Equal(t, "jobs", operator.ops[0].Construct)
	assert.Equal(t, "queue.redrive", operator.ops[0].Action)
	assert.Equal(t, "https://queues.example.com/app-dev-jobs", operator.ops[0].Params["queueUrl"])

	purge := q.Commands()["purge-failed"]
	require.NoError(t, purge.Run(context.Background()))
	require.Len(t, operator.ops, 2)
	assert.Equal(t, "queue.purge-dlq", operator.ops[1].Action)
}

func TestCommandsRequireDeployedStack(t *testing.T) {
	operator := &recordingOperator{}
	ctx, _ := testContext("app-dev", "jobs", nil, operator)

	q, err := New(ctx, json.RawMessage(`{}`))
	require.NoError(t, err)

	err = q.Commands()["retry-failed"].Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not deployed")
	assert.Empty(t, operator.ops)
}

func TestCommandsFailOfflineWithoutOperator(t *testing.T) {
	env := &environment.Static{
		Stack:   "app-dev",
		Outputs: map[string]string{"jobs.queueUrl": "https://queues.example.com/q"},
	}
	ctx, _ := testContext("app-dev", "jobs", env, nil)

	q, err := New(ctx, json.RawMessage(`{}`))
	require.NoError(t, err)

	err = q.Commands()["retry-failed"].Run(context.Background())
	assert.ErrorIs(t, err, construct.ErrNoOperator)
}
