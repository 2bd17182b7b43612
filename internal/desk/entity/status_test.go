package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplaintStatusValueRejectsUnknown(t *testing.T) {
	v, err := ComplaintStatusInProgress.Value()
	require.NoError(t, err)
	assert.Equal(t, "in_progress", v)

	_, err = ComplaintStatus("pending_manager_approval_extra").Value()
	assert.Error(t, err)

	_, err = ComplaintStatus("").Value()
	assert.Error(t, err)
}

func TestComplaintStatusScan(t *testing.T) {
	var s ComplaintStatus
	require.NoError(t, s.Scan("forwarded"))
	assert.Equal(t, ComplaintStatusForwarded, s)

	require.NoError(t, s.Scan([]byte("resolved")))
	assert.Equal(t, ComplaintStatusResolved, s)

	assert.Error(t, s.Scan("pending_manager_appro"))
	assert.Equal(t, ComplaintStatusResolved, s, "failed scan must not modify the destination")
	assert.Error(t, s.Scan(nil))
	assert.Error(t, s.Scan(42))
}

func TestQuoteStatuses(t *testing.T) {
	for _, s := range []QuoteRequestStatus{"draft", "open", "pending", "fulfilled", "cancelled", "closed"} {
		parsed, err := ParseQuoteRequestStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseQuoteRequestStatus("archived")
	assert.Error(t, err)

	assert.True(t, QuoteRequestStatusOpen.AcceptsBids())
	assert.True(t, QuoteRequestStatusPending.AcceptsBids())
	assert.False(t, QuoteRequestStatusClosed.AcceptsBids())
	assert.False(t, QuoteRequestStatusCancelled.AcceptsBids())
	assert.False(t, QuoteRequestStatusFulfilled.AcceptsBids())

	var rs QuoteResponseStatus
	assert.Error(t, rs.Scan("approved"))
	require.NoError(t, rs.Scan("negotiating"))
	assert.Equal(t, QuoteResponseStatusNegotiating, rs)
}

func TestRoleAndPriority(t *testing.T) {
	r, err := ParseRole("assistant_manager")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistantManager, r)
	_, err = ParseRole("root")
	assert.Error(t, err)

	assert.True(t, PriorityCritical.Valid())
	assert.False(t, Priority("urgent").Valid())
}

func TestStringList(t *testing.T) {
	var l StringList
	v, err := l.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	require.NoError(t, l.Scan(`["a.png","b.png"]`))
	assert.Equal(t, StringList{"a.png", "b.png"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)
}

func TestQuoteRequestDeletable(t *testing.T) {
	cases := map[QuoteRequestStatus]bool{
		QuoteRequestStatusDraft:     true,
		QuoteRequestStatusOpen:      true,
		QuoteRequestStatusCancelled: true,
		QuoteRequestStatusPending:   false,
		QuoteRequestStatusFulfilled: false,
		QuoteRequestStatusClosed:    false,
	}
	for status, want := range cases {
		q := &QuoteRequest{Status: status}
		assert.Equal(t, want, q.Deletable(), status)
	}
}
