package command

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tic-motion/tic-go/pkg/transport"
	"github.com/tic-motion/tic-go/pkg/transport/mocks"
)

func TestEncodeWideArgSplitsHalves(t *testing.T) {
	tests := []struct {
		name string
		arg  int32
		want transport.Request
	}{
		{"Positive", 0x12345678, transport.Request{Code: 0xE0, Value: 0x5678, Index: 0x1234}},
		{"Zero", 0, transport.Request{Code: 0xE0}},
		{"MinusOne", -1, transport.Request{Code: 0xE0, Value: 0xFFFF, Index: 0xFFFF}},
		{"MinInt32", -2147483648, transport.Request{Code: 0xE0, Value: 0x0000, Index: 0x8000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeWideArg(SetTargetPosition, tt.arg)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeSmallArgDomain(t *testing.T) {
	req, err := EncodeSmallArg(GoHome, 127)
	require.NoError(t, err)
	assert.Equal(t, uint16(127), req.Value)
	assert.Equal(t, uint16(0), req.Index)

	_, err = EncodeSmallArg(GoHome, 128)
	assert.ErrorIs(t, err, ErrProtocolViolation)

	_, err = EncodeSmallArg(GoHome, -1)
	assert.ErrorIs(t, err, ErrProtocolViolation)
}

func TestEncodeRejectsWrongShape(t *testing.T) {
	_, err := EncodeNoArgs(SetTargetPosition)
	assert.ErrorIs(t, err, ErrProtocolViolation)

	_, err = EncodeWideArg(Energize, 1)
	assert.ErrorIs(t, err, ErrProtocolViolation)

	_, err = EncodeBlockRead(SetSetting, 0, 1)
	assert.ErrorIs(t, err, ErrProtocolViolation)
}

func TestEncodeBlock(t *testing.T) {
	got, err := EncodeBlockRead(GetSetting, 0x47, 4)
	require.NoError(t, err)
	want := transport.Request{Direction: transport.DirectionIn, Code: 0xA8, Index: 0x47, Length: 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("read mismatch (-want +got):\n%s", diff)
	}

	_, err = EncodeBlockRead(GetVariable, 0, 0)
	assert.ErrorIs(t, err, ErrProtocolViolation)

	// Bytes above 0x7F are not sign extended into the value field.
	got, err = EncodeBlockWrite(SetSetting, 0x10, 0xFE)
	require.NoError(t, err)
	want = transport.Request{Direction: transport.DirectionOut, Code: 0x13, Value: 0x00FE, Index: 0x10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("write mismatch (-want +got):\n%s", diff)
	}
}

func TestSendWrapsTransportError(t *testing.T) {
	h := mocks.NewMockHandle(t)
	h.EXPECT().Transfer(mock.Anything, transport.Request{Code: 0x85}).
		Return(nil, transport.ErrDisconnected)

	err := Send(context.Background(), h, Energize)
	assert.ErrorIs(t, err, transport.ErrDisconnected)
	assert.Contains(t, err.Error(), "Energize")
}

func TestSendSmallOutOfRangeIssuesNothing(t *testing.T) {
	h := mocks.NewMockHandle(t)

	err := SendSmall(context.Background(), h, SetStepMode, 200)
	assert.ErrorIs(t, err, ErrProtocolViolation)
	h.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
}

func TestBlockReadShort(t *testing.T) {
	h := mocks.NewMockHandle(t)
	h.EXPECT().Transfer(mock.Anything, mock.Anything).Return([]byte{0x01, 0x02}, nil)

	_, err := BlockRead(context.Background(), h, GetVariable, 0x22, 4)
	assert.True(t, errors.Is(err, transport.ErrShortTransfer))
}

func TestBlockReadTrimsToLength(t *testing.T) {
	h := mocks.NewMockHandle(t)
	h.EXPECT().Transfer(mock.Anything, transport.Request{
		Direction: transport.DirectionIn, Code: 0xA1, Index: 0x0A, Length: 2,
	}).Return([]byte{0x10, 0x20, 0x30}, nil)

	data, err := BlockRead(context.Background(), h, GetVariable, 0x0A, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x20}, data)
}

func TestCatalogLookup(t *testing.T) {
	c, ok := ByName("ClearDriverError")
	require.True(t, ok)
	assert.Equal(t, uint8(0x8A), c.Code)
	assert.Equal(t, ShapeNoArgs, c.Shape)

	c, ok = ByCode(0xE6)
	require.True(t, ok)
	assert.Equal(t, "SetMaxSpeed", c.Name)

	_, ok = ByName("Nope")
	assert.False(t, ok)

	seen := make(map[uint8]string)
	for _, c := range All() {
		if prev, dup := seen[c.Code]; dup {
			t.Errorf("code 0x%02X used by %s and %s", c.Code, prev, c.Name)
		}
		seen[c.Code] = c.Name
	}
}
