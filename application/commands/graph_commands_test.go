package commands

import (
	"math"
	"testing"

	pkgerrors "fillai-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestDragNodeCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     DragNodeCommand
		wantErr bool
	}{
		{name: "pointer delta", cmd: DragNodeCommand{NodeID: "frontend", DX: 12, DY: -4}},
		{name: "largest delta", cmd: DragNodeCommand{NodeID: "frontend", DX: MaxDragDelta, DY: -MaxDragDelta}},
		{name: "missing node", cmd: DragNodeCommand{DX: 1}, wantErr: true},
		{name: "nan", cmd: DragNodeCommand{NodeID: "frontend", DX: math.NaN()}, wantErr: true},
		{name: "infinite", cmd: DragNodeCommand{NodeID: "frontend", DY: math.Inf(-1)}, wantErr: true},
		{name: "huge x", cmd: DragNodeCommand{NodeID: "frontend", DX: 1e308}, wantErr: true},
		{name: "huge y", cmd: DragNodeCommand{NodeID: "frontend", DY: -MaxDragDelta - 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, pkgerrors.IsValidation(err), "got %v", err)
		})
	}
}
