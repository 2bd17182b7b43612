package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bitfantasy/assetdesk/internal/desk/entity"
	"github.com/bitfantasy/assetdesk/internal/desk/repository"
	"github.com/bitfantasy/assetdesk/internal/desk/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type quoteFixture struct {
	*deskEnv
	st      staff
	vendorA *entity.Vendor
	vendorB *entity.Vendor
	userA   *entity.User
	userB   *entity.User
}

func setupQuotes(t *testing.T) *quoteFixture {
	t.Helper()
	env := setupDesk(t)
	f := &quoteFixture{deskEnv: env, st: env.seedStaff()}
	f.vendorA = testutil.SeedVendor(t, env.db, "v-a", "Acme Parts", "sales@acme.test")
	f.vendorB = testutil.SeedVendor(t, env.db, "v-b", "Bolt Supply", "bids@bolt.test")
	f.userA = testutil.SeedUser(t, env.db, "u-v-a", "sales@acme.test", entity.RoleVendor)
	f.userB = testutil.SeedUser(t, env.db, "u-v-b", "bids@bolt.test", entity.RoleVendor)
	return f
}

func (f *quoteFixture) createRequest(title string) *entity.QuoteRequest {
	f.t.Helper()
	qr, err := f.svc.Quote.Create(f.ctx, actorOf(f.st.manager), &CreateQuoteRequest{
		Title:       title,
		Description: "Please quote " + title,
	})
	require.NoError(f.t, err)
	return qr
}

func (f *quoteFixture) bid(u *entity.User, requestID string, amount float64) *entity.QuoteResponse {
	f.t.Helper()
	resp, err := f.svc.Quote.SubmitResponse(f.ctx, actorOf(u), requestID, &SubmitQuoteResponse{
		QuoteAmount:      amount,
		Description:      "Genuine parts",
		DeliveryTimeline: "5 business days",
	})
	require.NoError(f.t, err)
	return resp
}

func TestCreateQuoteRequest(t *testing.T) {
	f := setupQuotes(t)

	_, err := f.svc.Quote.Create(f.ctx, actorOf(f.st.ats), &CreateQuoteRequest{Title: "x", Description: "y"})
	var ae *AuthorizationError
	require.ErrorAs(t, err, &ae)

	_, err = f.svc.Quote.Create(f.ctx, actorOf(f.st.manager), &CreateQuoteRequest{Title: "x", Description: "y", Status: "fulfilled"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	qr := f.createRequest("Docking stations")
	assert.Equal(t, entity.QuoteRequestStatusDraft, qr.Status)
	assert.Equal(t, entity.PriorityMedium, qr.Priority)
	assert.Equal(t, 1, qr.Version)
	assert.Equal(t, f.st.manager.ID, qr.CreatedByID)
}

func TestAddVendorIsIdempotentAndOpensDraft(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Docking stations")

	first, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorA.ID)
	require.NoError(t, err)
	second, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorA.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored := f.reloadRequest(qr.ID)
	assert.Len(t, stored.VendorSelections, 1)
	assert.Equal(t, entity.QuoteRequestStatusOpen, stored.Status)

	_, err = f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, "v-missing")
	assert.True(t, IsNotFound(err))
}

func TestAddVendorOwnership(t *testing.T) {
	f := setupQuotes(t)
	qr, err := f.svc.Quote.CreateFromComplaint(f.ctx, actorOf(f.st.ats), "missing", &CreateQuoteRequest{Title: "x", Description: "y"})
	assert.Nil(t, qr)
	assert.True(t, IsNotFound(err))

	testutil.SeedEmployee(t, f.db, "emp-1", "Dana", "dana@corp.test")
	testutil.SeedComplaint(t, f.db, "c-1", "emp-1", testutil.ComplaintSeed{Status: entity.ComplaintStatusForwarded, Reason: "Need 2 RAM modules"})
	qr, err = f.svc.Quote.CreateFromComplaint(f.ctx, actorOf(f.st.ats), "c-1", &CreateQuoteRequest{Title: "RAM", Description: "DDR4"})
	require.NoError(t, err)

	// the ATS creator may manage vendors on its own request, another ATS may not
	_, err = f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.ats), qr.ID, f.vendorA.ID)
	require.NoError(t, err)
	_, err = f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.ats2), qr.ID, f.vendorB.ID)
	var ae *AuthorizationError
	require.ErrorAs(t, err, &ae)
}

func TestAddVendorRequiresDraftOrOpen(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Monitors")
	_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorA.ID)
	require.NoError(t, err)
	f.bid(f.userA, qr.ID, 900)

	_, err = f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorB.ID)
	var sc *StateConflictError
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, string(entity.QuoteRequestStatusPending), sc.State)
}

func TestCreateFromComplaint(t *testing.T) {
	f := setupQuotes(t)
	testutil.SeedEmployee(t, f.db, "emp-1", "Dana", "dana@corp.test")
	testutil.SeedComplaint(t, f.db, "c-plain", "emp-1", testutil.ComplaintSeed{})
	testutil.SeedComplaint(t, f.db, "c-1", "emp-1", testutil.ComplaintSeed{
		Title:  "Test PC slow",
		Status: entity.ComplaintStatusPendingManagerApproval,
		Reason: "Need 2 RAM modules",
		Notes:  "Forwarded to manager by am@corp.test",
	})

	_, err := f.svc.Quote.CreateFromComplaint(f.ctx, actorOf(f.st.manager), "c-plain", &CreateQuoteRequest{Title: "x", Description: "y"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = f.svc.Quote.CreateFromComplaint(f.ctx, actorOf(f.userA), "c-1", &CreateQuoteRequest{Title: "x", Description: "y"})
	var ae *AuthorizationError
	require.ErrorAs(t, err, &ae)

	qr, err := f.svc.Quote.CreateFromComplaint(f.ctx, actorOf(f.st.manager), "c-1", &CreateQuoteRequest{
		Title:       "RAM modules",
		Description: "2x 16GB DDR4",
	})
	require.NoError(t, err)
	assert.Equal(t, "RAM modules (Complaint: Test PC slow)", qr.Title)
	assert.Equal(t, "Component purchase for complaint #c-1: Need 2 RAM modules\n\nAdditional details: 2x 16GB DDR4", qr.Description)
	require.NotNil(t, qr.SourceComplaintID)
	assert.Equal(t, "c-1", *qr.SourceComplaintID)

	c := f.reloadComplaint("c-1")
	assert.Equal(t, entity.ComplaintStatusPendingManagerApproval, c.Status)
	assert.Equal(t, "Forwarded to manager by am@corp.test\nQuote request "+qr.ID+" created for component purchase. Status: draft", c.ResolutionNotes)
}

func TestSubmitResponseUpsertKeepsID(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Keyboards")
	_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorA.ID)
	require.NoError(t, err)

	first := f.bid(f.userA, qr.ID, 1200)
	stored := f.reloadRequest(qr.ID)
	assert.Equal(t, entity.QuoteRequestStatusPending, stored.Status)
	require.Len(t, stored.VendorSelections, 1)
	assert.True(t, stored.VendorSelections[0].HasResponded)

	f.advance(time.Hour)
	second := f.bid(f.userA, qr.ID, 1100)
	assert.Equal(t, first.ID, second.ID)

	responses, err := f.repos.Quote.ListResponses(f.ctx, qr.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, 1100.0, responses[0].QuoteAmount)
	assert.True(t, responses[0].SubmittedAt.After(first.SubmittedAt))
}

func TestSubmitResponseVendorScoping(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Keyboards")
	_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorA.ID)
	require.NoError(t, err)

	// not invited
	_, err = f.svc.Quote.SubmitResponse(f.ctx, actorOf(f.userB), qr.ID, &SubmitQuoteResponse{QuoteAmount: 10, Description: "x"})
	var ae *AuthorizationError
	require.ErrorAs(t, err, &ae)

	// someone else's vendor id
	_, err = f.svc.Quote.SubmitResponse(f.ctx, actorOf(f.userA), qr.ID, &SubmitQuoteResponse{VendorID: f.vendorB.ID, QuoteAmount: 10, Description: "x"})
	require.ErrorAs(t, err, &ae)

	_, err = f.svc.Quote.SubmitResponse(f.ctx, actorOf(f.userA), qr.ID, &SubmitQuoteResponse{QuoteAmount: 0, Description: "x"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	// manager on behalf of an uninvited vendor selects it implicitly
	resp, err := f.svc.Quote.SubmitResponse(f.ctx, actorOf(f.st.manager), qr.ID, &SubmitQuoteResponse{VendorID: f.vendorB.ID, QuoteAmount: 700, Description: "phone quote"})
	require.NoError(t, err)
	assert.Equal(t, f.vendorB.ID, resp.VendorID)
	sel, err := f.repos.Quote.FindSelection(f.ctx, qr.ID, f.vendorB.ID)
	require.NoError(t, err)
	assert.True(t, sel.HasResponded)
}

func TestSubmitResponseRequiresOpenOrPending(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Cables")
	_, err := f.svc.Quote.SubmitResponse(f.ctx, actorOf(f.st.manager), qr.ID, &SubmitQuoteResponse{VendorID: f.vendorA.ID, QuoteAmount: 10, Description: "x"})
	var sc *StateConflictError
	require.ErrorAs(t, err, &sc, "draft requests take no bids")
}

func TestRemoveVendor(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Headsets")
	selA, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorA.ID)
	require.NoError(t, err)
	selB, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorB.ID)
	require.NoError(t, err)
	bidA := f.bid(f.userA, qr.ID, 300)

	err = f.svc.Quote.RemoveVendor(f.ctx, actorOf(f.st.manager), selA.ID)
	var sc *StateConflictError
	require.ErrorAs(t, err, &sc)
	_, err = f.repos.Quote.FindSelectionByID(f.ctx, selA.ID)
	require.NoError(t, err, "responded selection untouched")
	kept, err := f.repos.Quote.FindResponse(f.ctx, qr.ID, f.vendorA.ID)
	require.NoError(t, err, "the bid survives a refused removal")
	assert.Equal(t, bidA.ID, kept.ID)
	assert.Equal(t, 300.0, kept.QuoteAmount)
	assert.Equal(t, entity.QuoteResponseStatusPendingReview, kept.Status)

	err = f.svc.Quote.RemoveVendor(f.ctx, actorOf(f.st.ats), selB.ID)
	var ae *AuthorizationError
	require.ErrorAs(t, err, &ae)

	require.NoError(t, f.svc.Quote.RemoveVendor(f.ctx, actorOf(f.st.manager), selB.ID))
	_, err = f.repos.Quote.FindSelectionByID(f.ctx, selB.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReviewValidation(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Mice")
	_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorA.ID)
	require.NoError(t, err)
	resp := f.bid(f.userA, qr.ID, 50)

	_, err = f.svc.Quote.Review(f.ctx, actorOf(f.st.manager), resp.ID, &ReviewQuoteResponse{Status: "approved"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = f.svc.Quote.Review(f.ctx, actorOf(f.userA), resp.ID, &ReviewQuoteResponse{Status: "accepted"})
	var ae *AuthorizationError
	require.ErrorAs(t, err, &ae)

	_, err = f.svc.Quote.Review(f.ctx, actorOf(f.st.manager), "missing", &ReviewQuoteResponse{Status: "rejected"})
	assert.True(t, IsNotFound(err))

	res, err := f.svc.Quote.Review(f.ctx, actorOf(f.st.manager), resp.ID, &ReviewQuoteResponse{Status: "negotiating", Notes: "Can you do 45?"})
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteResponseStatusNegotiating, res.Response.Status)
	assert.Equal(t, LinkNone, res.LinkStrategy)
	assert.Equal(t, entity.QuoteRequestStatusPending, f.reloadRequest(qr.ID).Status)
}

func TestAcceptOnClosedOrCancelledRequestConflicts(t *testing.T) {
	for _, terminal := range []string{"closed", "cancelled"} {
		t.Run(terminal, func(t *testing.T) {
			f := setupQuotes(t)
			qr := f.createRequest("Printers")
			_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorA.ID)
			require.NoError(t, err)
			resp, err := f.svc.Quote.SubmitResponse(f.ctx, actorOf(f.st.manager), qr.ID,
				&SubmitQuoteResponse{VendorID: f.vendorA.ID, QuoteAmount: 400, Description: "x"})
			require.NoError(t, err)

			// force the terminal state the way an operator would
			require.NoError(t, f.db.Model(&entity.QuoteRequest{}).Where("id = ?", qr.ID).
				Update("status", entity.QuoteRequestStatus(terminal)).Error)

			_, err = f.svc.Quote.Review(f.ctx, actorOf(f.st.manager), resp.ID, &ReviewQuoteResponse{Status: "accepted"})
			var sc *StateConflictError
			require.ErrorAs(t, err, &sc)

			stored, err := f.repos.Quote.FindResponseByID(f.ctx, resp.ID)
			require.NoError(t, err)
			assert.Equal(t, entity.QuoteResponseStatusPendingReview, stored.Status)
			assert.Equal(t, entity.QuoteRequestStatus(terminal), f.reloadRequest(qr.ID).Status)
		})
	}
}

func TestSecondAcceptanceConflicts(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Webcams")
	for _, v := range []*entity.Vendor{f.vendorA, f.vendorB} {
		_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, v.ID)
		require.NoError(t, err)
	}
	respA := f.bid(f.userA, qr.ID, 800)
	respB := f.bid(f.userB, qr.ID, 750)

	_, err := f.svc.Quote.Review(f.ctx, actorOf(f.st.manager), respA.ID, &ReviewQuoteResponse{Status: "accepted"})
	require.NoError(t, err)

	_, err = f.svc.Quote.Review(f.ctx, actorOf(f.st.admin), respB.ID, &ReviewQuoteResponse{Status: "accepted"})
	var sc *StateConflictError
	require.ErrorAs(t, err, &sc)

	stored := f.reloadRequest(qr.ID)
	assert.Equal(t, entity.QuoteRequestStatusFulfilled, stored.Status)
	require.NotNil(t, stored.CompletedDate)
	n, err := f.repos.Quote.CountAccepted(f.ctx, qr.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// re-reviewing the accepted response is refused too
	_, err = f.svc.Quote.Review(f.ctx, actorOf(f.st.manager), respA.ID, &ReviewQuoteResponse{Status: "rejected"})
	require.ErrorAs(t, err, &sc)
}

// staleRequests serves a request snapshot taken before a concurrent change.
type staleRequests struct {
	*repository.QuoteRepository
	snapshot entity.QuoteRequest
}

func (s *staleRequests) FindRequest(context.Context, string) (*entity.QuoteRequest, error) {
	qr := s.snapshot
	return &qr, nil
}

func TestSubmitResponseAfterConcurrentAcceptanceConflicts(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Docks")
	for _, v := range []*entity.Vendor{f.vendorA, f.vendorB} {
		_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, v.ID)
		require.NoError(t, err)
	}
	respA := f.bid(f.userA, qr.ID, 900)
	loaded := f.reloadRequest(qr.ID)

	// the acceptance commits after vendor B's submission loaded the request
	_, err := f.svc.Quote.Review(f.ctx, actorOf(f.st.manager), respA.ID, &ReviewQuoteResponse{Status: "accepted"})
	require.NoError(t, err)

	racing := NewQuoteService(&staleRequests{QuoteRepository: f.repos.Quote, snapshot: *loaded},
		f.repos.Vendor, f.repos.Complaint, f.svc.Complaint, f.svc.Linker, f.svc.Notification, f.repos.Tx, zap.NewNop())
	_, err = racing.SubmitResponse(f.ctx, actorOf(f.userB), qr.ID, &SubmitQuoteResponse{QuoteAmount: 850, Description: "late"})
	var sc *StateConflictError
	require.ErrorAs(t, err, &sc)

	_, err = f.repos.Quote.FindResponse(f.ctx, qr.ID, f.vendorB.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound, "no bid lands on a fulfilled request")
	stored := f.reloadRequest(qr.ID)
	assert.Equal(t, entity.QuoteRequestStatusFulfilled, stored.Status)
	assert.Equal(t, loaded.Version+1, stored.Version)
}

func TestAcceptRefusesSecondAcceptedResponse(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Switches")
	for _, v := range []*entity.Vendor{f.vendorA, f.vendorB} {
		_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, v.ID)
		require.NoError(t, err)
	}
	respA := f.bid(f.userA, qr.ID, 640)
	respB := f.bid(f.userB, qr.ID, 610)

	// an accepted row written outside the review flow
	require.NoError(t, f.db.Model(&entity.QuoteResponse{}).Where("id = ?", respA.ID).
		Update("status", entity.QuoteResponseStatusAccepted).Error)

	_, err := f.svc.Quote.Review(f.ctx, actorOf(f.st.manager), respB.ID, &ReviewQuoteResponse{Status: "accepted"})
	var sc *StateConflictError
	require.ErrorAs(t, err, &sc)

	assert.Equal(t, entity.QuoteRequestStatusPending, f.reloadRequest(qr.ID).Status, "rolled back")
	stored, err := f.repos.Quote.FindResponseByID(f.ctx, respB.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteResponseStatusPendingReview, stored.Status)
}

func TestFulfilRequestRejectsStaleVersion(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Chairs")
	_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorA.ID)
	require.NoError(t, err)
	stale := f.reloadRequest(qr.ID)

	// a concurrent writer moves the request on
	f.bid(f.userA, qr.ID, 120)

	err = f.repos.Quote.FulfilRequest(f.ctx, stale.ID, stale.Version, fixedNow)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	fresh := f.reloadRequest(qr.ID)
	require.NoError(t, f.repos.Quote.FulfilRequest(f.ctx, fresh.ID, fresh.Version, fixedNow))
	assert.Equal(t, entity.QuoteRequestStatusFulfilled, f.reloadRequest(qr.ID).Status)
}

func TestUpdateAndDelete(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Desks")

	title := "Standing desks"
	budget := 5000.0
	updated, err := f.svc.Quote.Update(f.ctx, actorOf(f.st.manager), qr.ID, &UpdateQuoteRequest{Title: &title, Budget: &budget})
	require.NoError(t, err)
	assert.Equal(t, "Standing desks", updated.Title)
	assert.Equal(t, 2, updated.Version)

	pending := "pending"
	_, err = f.svc.Quote.Update(f.ctx, actorOf(f.st.manager), qr.ID, &UpdateQuoteRequest{Status: &pending})
	var sc *StateConflictError
	require.ErrorAs(t, err, &sc)

	cancelled := "cancelled"
	_, err = f.svc.Quote.Update(f.ctx, actorOf(f.st.manager), qr.ID, &UpdateQuoteRequest{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteRequestStatusCancelled, f.reloadRequest(qr.ID).Status)

	err = f.svc.Quote.Delete(f.ctx, actorOf(f.st.ats), qr.ID)
	var ae *AuthorizationError
	require.ErrorAs(t, err, &ae)

	require.NoError(t, f.svc.Quote.Delete(f.ctx, actorOf(f.st.manager), qr.ID))
	_, err = f.repos.Quote.FindRequest(f.ctx, qr.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteRefusesPendingRequest(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Projectors")
	_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, f.vendorA.ID)
	require.NoError(t, err)
	f.bid(f.userA, qr.ID, 2000)

	err = f.svc.Quote.Delete(f.ctx, actorOf(f.st.manager), qr.ID)
	var sc *StateConflictError
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, entity.QuoteRequestStatusPending, f.reloadRequest(qr.ID).Status)
}

func TestQuoteReadViews(t *testing.T) {
	f := setupQuotes(t)
	qrA := f.createRequest("Laptops")
	f.createRequest("Phones")
	_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qrA.ID, f.vendorA.ID)
	require.NoError(t, err)
	f.bid(f.userA, qrA.ID, 9000)

	items, total, err := f.svc.Quote.ListForVendor(f.ctx, actorOf(f.userA), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, qrA.ID, items[0].ID)

	_, total, err = f.svc.Quote.ListForVendor(f.ctx, actorOf(f.userB), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	_, err = f.svc.Quote.Get(f.ctx, actorOf(f.userB), qrA.ID)
	var ae *AuthorizationError
	require.True(t, errors.As(err, &ae))
	got, err := f.svc.Quote.Get(f.ctx, actorOf(f.userA), qrA.ID)
	require.NoError(t, err)
	assert.Len(t, got.Responses, 1)

	mine, total, err := f.svc.Quote.ListMine(f.ctx, actorOf(f.st.manager), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, mine, 2)

	_, total, err = f.svc.Quote.List(f.ctx, actorOf(f.st.admin), 1, 20, map[string]string{"search": "lapt"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	bids, err := f.svc.Quote.ListVendorResponses(f.ctx, actorOf(f.userA))
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, 9000.0, bids[0].QuoteAmount)
}

func TestExportComparison(t *testing.T) {
	f := setupQuotes(t)
	qr := f.createRequest("Routers")
	for _, v := range []*entity.Vendor{f.vendorA, f.vendorB} {
		_, err := f.svc.Quote.AddVendor(f.ctx, actorOf(f.st.manager), qr.ID, v.ID)
		require.NoError(t, err)
	}
	f.bid(f.userA, qr.ID, 640)
	f.advance(time.Minute)
	f.bid(f.userB, qr.ID, 610)

	_, _, err := f.svc.Quote.ExportComparison(f.ctx, actorOf(f.userA), qr.ID)
	var ae *AuthorizationError
	require.ErrorAs(t, err, &ae)

	wb, name, err := f.svc.Quote.ExportComparison(f.ctx, actorOf(f.st.manager), qr.ID)
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, "quote_comparison_Routers.xlsx", name)

	title, err := wb.GetCellValue("Comparison", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Routers", title)
	header, err := wb.GetCellValue("Comparison", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Vendor", header)
	first, err := wb.GetCellValue("Comparison", "B5")
	require.NoError(t, err)
	assert.Equal(t, "Acme Parts", first)
	second, err := wb.GetCellValue("Comparison", "B6")
	require.NoError(t, err)
	assert.Equal(t, "Bolt Supply", second)
}
