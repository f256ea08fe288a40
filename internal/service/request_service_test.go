package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/life-bridge/internal/domain"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

func TestCreateRequestNotifiesEveryOtherUser(t *testing.T) {
	f := newFixture(t)
	requester := f.user(t, "Rita", domain.RoleRecipient, domain.BloodGroupONeg)
	donor := f.user(t, "Dan", domain.RoleDonor, domain.BloodGroupAPos)
	other := f.user(t, "Rosa", domain.RoleRecipient, domain.BloodGroupBPos)
	admin := f.user(t, "Ada", domain.RoleAdmin, "")

	view, err := f.requests.CreateRequest(f.ctx, requester.ID, RequestInput{BloodGroup: "O-", Units: "2", Location: "12 Main St"})
	require.NoError(t, err)

	assert.Equal(t, domain.BloodGroupONeg, view.Request.BloodGroup)
	assert.Equal(t, 2, view.Request.Units)
	assert.Equal(t, requester.ID, view.Requester.User.ID)
	assert.False(t, view.Requester.Orphaned())

	count, err := f.store.BloodRequests().Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.ElementsMatch(t, []string{donor.Email, other.Email, admin.Email}, f.queue.To())
	for _, msg := range f.queue.Messages() {
		assert.Equal(t, "Blood Request Alert", msg.Subject)
		assert.Contains(t, msg.Body, "Blood Group: O-")
		assert.Contains(t, msg.Body, "Units: 2")
		assert.Contains(t, msg.Body, "Location: 12 Main St")
	}
}

func TestCreateRequestFailsWhenQueueFails(t *testing.T) {
	f := newFixture(t)
	requester := f.user(t, "Rita", domain.RoleRecipient, domain.BloodGroupONeg)
	f.user(t, "Dan", domain.RoleDonor, domain.BloodGroupAPos)
	f.queue.fail = true

	view, err := f.requests.CreateRequest(f.ctx, requester.ID, RequestInput{BloodGroup: "O-", Units: "2", Location: "12 Main St"})
	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
	assert.Equal(t, 500, apperrors.ToDomainError(err).HTTPStatus)

	count, err := f.store.BloodRequests().Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreateRequestValidation(t *testing.T) {
	cases := []struct {
		name    string
		input   RequestInput
		details string
	}{
		{"missing fields", RequestInput{BloodGroup: "A+"}, "fields"},
		{"unknown group", RequestInput{BloodGroup: "C+", Units: "1", Location: "12 Main St"}, "validGroups"},
		{"lowercase group", RequestInput{BloodGroup: "a+", Units: "1", Location: "12 Main St"}, "validGroups"},
		{"zero units", RequestInput{BloodGroup: "A+", Units: "0", Location: "12 Main St"}, "fields"},
		{"negative units", RequestInput{BloodGroup: "A+", Units: "-2", Location: "12 Main St"}, "details"},
		{"fractional units", RequestInput{BloodGroup: "A+", Units: "1.5", Location: "12 Main St"}, "details"},
		{"non-numeric units", RequestInput{BloodGroup: "A+", Units: "two", Location: "12 Main St"}, "details"},
		{"short location", RequestInput{BloodGroup: "A+", Units: "1", Location: "  ab  "}, "details"},
		{"two-character multibyte location", RequestInput{BloodGroup: "A+", Units: "1", Location: "日本"}, "details"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			requester := f.user(t, "Rita", domain.RoleRecipient, "")

			_, err := f.requests.CreateRequest(f.ctx, requester.ID, tc.input)
			require.Error(t, err)
			derr := apperrors.ToDomainError(err)
			assert.Equal(t, apperrors.CodeValidation, derr.Code)
			assert.Contains(t, derr.Details, tc.details)

			count, err := f.store.BloodRequests().Count(f.ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
			assert.Empty(t, f.queue.Messages())
		})
	}
}

func TestCreateRequestAcceptsThreeCharacterMultibyteLocation(t *testing.T) {
	f := newFixture(t)
	requester := f.user(t, "Rita", domain.RoleRecipient, "")

	view, err := f.requests.CreateRequest(f.ctx, requester.ID, RequestInput{BloodGroup: "A+", Units: "1", Location: "東京都"})
	require.NoError(t, err)
	assert.Equal(t, "東京都", view.Request.Location)
}

func TestCreateRequestAcceptsIntegralFloat(t *testing.T) {
	f := newFixture(t)
	requester := f.user(t, "Rita", domain.RoleRecipient, "")

	view, err := f.requests.CreateRequest(f.ctx, requester.ID, RequestInput{BloodGroup: " AB+ ", Units: "4.0", Location: "General Hospital"})
	require.NoError(t, err)
	assert.Equal(t, 4, view.Request.Units)
	assert.Equal(t, domain.BloodGroupABPos, view.Request.BloodGroup)
}

func TestListRequestsFilters(t *testing.T) {
	f := newFixture(t)
	rita := f.user(t, "Rita", domain.RoleRecipient, "")
	rosa := f.user(t, "Rosa", domain.RoleRecipient, "")
	donor := f.user(t, "Dan", domain.RoleDonor, "")

	first := f.request(t, rita, "A+", "1")
	second := f.request(t, rosa, "B-", "1")
	third := f.request(t, rita, "A+", "3")

	all, err := f.requests.ListRequests(f.ctx, RequestListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.Request.ID, all[0].Request.ID)
	assert.Equal(t, first.Request.ID, all[2].Request.ID)

	aPos, err := f.requests.ListRequests(f.ctx, RequestListFilter{BloodGroup: "A+"})
	require.NoError(t, err)
	assert.Len(t, aPos, 2)

	mine, err := f.requests.ListUserRequests(f.ctx, rosa.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, second.Request.ID, mine[0].Request.ID)

	pickup := &domain.Pickup{DonorID: donor.ID, RequestID: first.Request.ID, Date: "2024-05-01", Time: "10:00", Location: "Clinic", Status: domain.PickupStatusCompleted}
	require.NoError(t, f.store.Pickups().Create(f.ctx, pickup))

	open, err := f.requests.ListRequests(f.ctx, RequestListFilter{ExcludeCompletedPickups: true})
	require.NoError(t, err)
	assert.Len(t, open, 2)
	for _, v := range open {
		assert.NotEqual(t, first.Request.ID, v.Request.ID)
	}
}

func TestListRequestsMarksOrphanedRequester(t *testing.T) {
	f := newFixture(t)
	req := &domain.BloodRequest{BloodGroup: domain.BloodGroupOPos, Units: 1, Location: "Somewhere", RequestedBy: "00000000-0000-0000-0000-000000000000"}
	require.NoError(t, f.store.BloodRequests().Create(f.ctx, req))

	views, err := f.requests.ListRequests(f.ctx, RequestListFilter{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Requester.Orphaned())
}
