package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/conon21154/lineguide/internal/model"
	"github.com/conon21154/lineguide/internal/service"
)

type MockSubmitter struct {
	Err  error
	Rows []model.AddressRow
}

func (m *MockSubmitter) SubmitRows(_ context.Context, rows []model.AddressRow) (*model.Job, error) {
	m.Rows = rows
	if m.Err != nil {
		return nil, m.Err
	}
	return &model.Job{ID: uuid.New(), Total: len(rows)}, nil
}

func TestConsumerHandle(t *testing.T) {
	valid := []byte(`{"rows":[{"city":"부산","district":"동래구","neighborhood":"온천동","lot":"871-95","extra":"1층"}]}`)

	tests := []struct {
		name string
		body []byte
		err  error
		want outcome
	}{
		{name: "accepted", body: valid, want: outcomeAck},
		{name: "malformed json", body: []byte(`{"rows":`), want: outcomeReject},
		{name: "no usable rows", body: valid, err: fmt.Errorf("%w: no usable address rows", service.ErrInvalidInput), want: outcomeReject},
		{name: "store failure", body: valid, err: errors.New("connection refused"), want: outcomeRequeue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submitter := &MockSubmitter{Err: tt.err}
			consumer := &Consumer{submitter: submitter, log: zerolog.Nop()}
			assert.Equal(t, tt.want, consumer.handle(context.Background(), tt.body))
		})
	}
}

func TestConsumerHandleDecodesRows(t *testing.T) {
	submitter := &MockSubmitter{}
	consumer := &Consumer{submitter: submitter, log: zerolog.Nop()}

	consumer.handle(context.Background(), []byte(`{"rows":[{"city":"울산","district":"남구","neighborhood":"삼산동"}]}`))
	assert.Equal(t, []model.AddressRow{{City: "울산", District: "남구", Neighborhood: "삼산동"}}, submitter.Rows)
}
