package api

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		cmd     ClientCommand
		want    Validator
		wantErr bool
	}{
		{
			name: "set ai",
			cmd:  ClientCommand{Action: ActionSetAI, Payload: json.RawMessage(`{"enabled":true}`)},
			want: AIPayload{Enabled: true},
		},
		{
			name: "set controller",
			cmd:  ClientCommand{Action: ActionSetController, Payload: json.RawMessage(`{"tankId":2,"kind":"fsm"}`)},
			want: ControllerPayload{TankID: 2, Kind: "fsm"},
		},
		{
			name:    "unknown kind",
			cmd:     ClientCommand{Action: ActionSetController, Payload: json.RawMessage(`{"tankId":0,"kind":"utility"}`)},
			wantErr: true,
		},
		{
			name:    "missing payload",
			cmd:     ClientCommand{Action: ActionSetAI},
			wantErr: true,
		},
		{
			name:    "broken json",
			cmd:     ClientCommand{Action: ActionSetAI, Payload: json.RawMessage(`{"enabled":`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePayload(tt.cmd)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePayloadUnknownAction(t *testing.T) {
	_, err := DecodePayload(ClientCommand{Action: "FIRE", Payload: json.RawMessage(`{}`)})
	assert.True(t, errors.Is(err, ErrUnknownAction))
	assert.Contains(t, err.Error(), "FIRE")
}
