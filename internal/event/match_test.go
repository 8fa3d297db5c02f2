package event

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger-labs/crosschain-interop/internal/receipt"
)

func transferFingerprint(t *testing.T) *Encoded {
	t.Helper()
	encoded, err := Encode(contractAddr, "Transfer(address,address,uint256)",
		Indexed("address", alice),
		Indexed("address", bob),
		NonIndexed("uint256", big.NewInt(1)),
	)
	require.NoError(t, err)
	return encoded
}

func matchingLog(e *Encoded) receipt.Log {
	return receipt.Log{
		Address: e.Address,
		Topics:  append([]string{}, e.Topics...),
		Data:    e.Data,
	}
}

func Test_IsFoundIn(t *testing.T) {
	e := transferFingerprint(t)

	caseSwapped := matchingLog(e)
	caseSwapped.Address = strings.ToUpper(strings.TrimPrefix(caseSwapped.Address, "0x"))
	caseSwapped.Address = "0x" + caseSwapped.Address
	for i := range caseSwapped.Topics {
		caseSwapped.Topics[i] = "0x" + strings.ToUpper(strings.TrimPrefix(caseSwapped.Topics[i], "0x"))
	}
	caseSwapped.Data = "0x" + strings.ToUpper(strings.TrimPrefix(caseSwapped.Data, "0x"))

	otherLog := matchingLog(e)
	otherLog.Topics = otherLog.Topics[:1]

	removedLog := matchingLog(e)
	removedLog.Removed = true

	tests := []struct {
		name string
		r    *receipt.Receipt
		want bool
	}{
		{
			name: "single match",
			r:    &receipt.Receipt{Status: "0x1", Logs: []receipt.Log{matchingLog(e)}},
			want: true,
		},
		{
			name: "case-swapped hex still matches",
			r:    &receipt.Receipt{Status: "0x1", Logs: []receipt.Log{caseSwapped}},
			want: true,
		},
		{
			name: "match among unrelated logs",
			r:    &receipt.Receipt{Status: "0x1", Logs: []receipt.Log{otherLog, matchingLog(e), otherLog}},
			want: true,
		},
		{
			name: "no logs",
			r:    &receipt.Receipt{Status: "0x1"},
			want: false,
		},
		{
			name: "two identical matches",
			r:    &receipt.Receipt{Status: "0x1", Logs: []receipt.Log{matchingLog(e), matchingLog(e)}},
			want: false,
		},
		{
			name: "failed receipt",
			r:    &receipt.Receipt{Status: "0x0", Logs: []receipt.Log{matchingLog(e)}},
			want: false,
		},
		{
			name: "removed log",
			r:    &receipt.Receipt{Status: "0x1", Logs: []receipt.Log{removedLog}},
			want: false,
		},
		{
			name: "removed duplicate does not spoil uniqueness",
			r:    &receipt.Receipt{Status: "0x1", Logs: []receipt.Log{matchingLog(e), removedLog}},
			want: true,
		},
		{
			name: "nil receipt",
			r:    nil,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.IsFoundIn(tt.r); got != tt.want {
				t.Errorf("IsFoundIn() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_FindIn(t *testing.T) {
	e := transferFingerprint(t)
	lg := matchingLog(e)
	r := &receipt.Receipt{Status: "0x1", Logs: []receipt.Log{lg}}

	found, got := e.FindIn(r)
	require.True(t, found)
	require.Equal(t, lg, got)

	found, got = e.FindIn(&receipt.Receipt{Status: "0x1"})
	require.False(t, found)
	require.Equal(t, receipt.Log{}, got, "no match returns the zero log")
}

func Test_MatchFieldSensitivity(t *testing.T) {
	e := transferFingerprint(t)

	wrongAddress := matchingLog(e)
	wrongAddress.Address = "0x0000000000000000000000000000000000000001"

	wrongTopic := matchingLog(e)
	wrongTopic.Topics[2] = wrongTopic.Topics[1]

	wrongData := matchingLog(e)
	wrongData.Data = "0x0000000000000000000000000000000000000000000000000000000000000002"

	for name, lg := range map[string]receipt.Log{
		"address": wrongAddress,
		"topic":   wrongTopic,
		"data":    wrongData,
	} {
		r := &receipt.Receipt{Status: "0x1", Logs: []receipt.Log{lg}}
		if e.IsFoundIn(r) {
			t.Errorf("IsFoundIn() matched despite wrong %s", name)
		}
	}
}
