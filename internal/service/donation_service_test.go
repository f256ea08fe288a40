package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/life-bridge/internal/domain"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

func donationInput(group, units string) DonationInput {
	return DonationInput{BloodGroup: group, Units: units, Location: "City Clinic", AvailableDate: "2024-05-01", AvailableTime: "10:00"}
}

func TestCreateDonationNotifiesMatchingRecipients(t *testing.T) {
	f := newFixture(t)
	donor := f.user(t, "Dan", domain.RoleDonor, domain.BloodGroupAPos)
	r1 := f.user(t, "Rita", domain.RoleRecipient, domain.BloodGroupAPos)
	r2 := f.user(t, "Rosa", domain.RoleRecipient, domain.BloodGroupAPos)
	f.user(t, "Ravi", domain.RoleRecipient, domain.BloodGroupBPos)
	f.user(t, "Drew", domain.RoleDonor, domain.BloodGroupAPos)

	view, err := f.donations.CreateDonation(f.ctx, donor.ID, donationInput("A+", "2"))
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusPending, view.Donation.Status)
	assert.Equal(t, donor.ID, view.Donor.User.ID)

	assert.ElementsMatch(t, []string{r1.Email, r2.Email}, f.queue.To())
	assert.Equal(t, "New Blood Donation Available", f.queue.Messages()[0].Subject)
}

func TestCreateDonationSucceedsWhenNotifierFails(t *testing.T) {
	f := newFixture(t)
	donor := f.user(t, "Dan", domain.RoleDonor, domain.BloodGroupAPos)
	f.user(t, "Rita", domain.RoleRecipient, domain.BloodGroupAPos)
	f.user(t, "Rosa", domain.RoleRecipient, domain.BloodGroupAPos)
	f.queue.fail = true

	view, err := f.donations.CreateDonation(f.ctx, donor.ID, donationInput("A+", "1"))
	require.NoError(t, err)
	assert.NotEmpty(t, view.Donation.ID)
}

func TestCreateDonationValidation(t *testing.T) {
	cases := map[string]struct {
		input   DonationInput
		details string
	}{
		"missing time":   {DonationInput{BloodGroup: "A+", Units: "1", Location: "x", AvailableDate: "2024-05-01"}, "fields"},
		"unknown group":  {donationInput("Z+", "1"), "validGroups"},
		"negative units": {donationInput("A+", "-1"), "details"},
		"too many units": {donationInput("A+", "4"), "details"},
		"fractional":     {donationInput("A+", "2.5"), "details"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			donor := f.user(t, "Dan", domain.RoleDonor, domain.BloodGroupAPos)

			_, err := f.donations.CreateDonation(f.ctx, donor.ID, tc.input)
			derr := apperrors.ToDomainError(err)
			require.NotNil(t, derr)
			assert.Equal(t, apperrors.CodeValidation, derr.Code)
			assert.Contains(t, derr.Details, tc.details)

			all, err := f.donations.ListDonations(f.ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestMissingFieldsListsEveryAbsentField(t *testing.T) {
	f := newFixture(t)
	donor := f.user(t, "Dan", domain.RoleDonor, "")

	_, err := f.donations.CreateDonation(f.ctx, donor.ID, DonationInput{BloodGroup: "A+"})
	derr := apperrors.ToDomainError(err)
	assert.Equal(t, "Missing required fields", derr.Message)
	assert.ElementsMatch(t, []string{"units", "location", "availableDate", "availableTime"}, derr.Details["fields"])
}

func TestCreateDonationReportsZeroUnitsAsMissing(t *testing.T) {
	f := newFixture(t)
	donor := f.user(t, "Dan", domain.RoleDonor, "")

	_, err := f.donations.CreateDonation(f.ctx, donor.ID, DonationInput{BloodGroup: "A+", Units: "0", Location: "Clinic"})
	derr := apperrors.ToDomainError(err)
	require.NotNil(t, derr)
	assert.Equal(t, "Missing required fields", derr.Message)
	assert.ElementsMatch(t, []string{"units", "availableDate", "availableTime"}, derr.Details["fields"])
}

func TestUpdateDonationStatus(t *testing.T) {
	f := newFixture(t)
	donor := f.user(t, "Dan", domain.RoleDonor, domain.BloodGroupAPos)
	recipient := f.user(t, "Rita", domain.RoleRecipient, domain.BloodGroupBPos)
	created, err := f.donations.CreateDonation(f.ctx, donor.ID, donationInput("A+", "2"))
	require.NoError(t, err)
	f.queue.Reset()

	view, err := f.donations.UpdateDonation(f.ctx, "admin", created.Donation.ID, DonationUpdate{Status: "approved", RecipientID: &recipient.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusApproved, view.Donation.Status)
	require.NotNil(t, view.Recipient)
	assert.Equal(t, recipient.ID, view.Recipient.User.ID)

	msgs := f.queue.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, donor.Email, msgs[0].To)
	assert.Equal(t, "Your Blood Donation is Approved", msgs[0].Subject)
	assert.Contains(t, msgs[0].Body, "(A+, 2 units) has been approved")

	f.queue.Reset()
	view, err = f.donations.UpdateDonation(f.ctx, "admin", created.Donation.ID, DonationUpdate{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusRejected, view.Donation.Status)
	assert.Empty(t, f.queue.Messages())
}

func TestUpdateDonationAcceptsAnyKnownStatus(t *testing.T) {
	f := newFixture(t)
	donor := f.user(t, "Dan", domain.RoleDonor, domain.BloodGroupAPos)
	created, err := f.donations.CreateDonation(f.ctx, donor.ID, donationInput("A+", "1"))
	require.NoError(t, err)

	for _, status := range []string{"completed", "pending", "rejected", "approved", "pending"} {
		view, err := f.donations.UpdateDonation(f.ctx, "admin", created.Donation.ID, DonationUpdate{Status: status})
		require.NoError(t, err, status)
		assert.Equal(t, domain.DonationStatus(status), view.Donation.Status)
	}

	stored, err := f.store.Donations().GetByID(f.ctx, created.Donation.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusPending, stored.Status)
}

func TestUpdateDonationRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	donor := f.user(t, "Dan", domain.RoleDonor, domain.BloodGroupAPos)
	created, err := f.donations.CreateDonation(f.ctx, donor.ID, donationInput("A+", "2"))
	require.NoError(t, err)

	_, err = f.donations.UpdateDonation(f.ctx, "admin", created.Donation.ID, DonationUpdate{Status: "shipped"})
	derr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, derr.Code)
	assert.Equal(t, domain.DonationStatusStrings(), derr.Details["validStatuses"])
}

func TestUpdateDonationMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.donations.UpdateDonation(f.ctx, "admin", "00000000-0000-0000-0000-000000000001", DonationUpdate{Status: "approved"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.donations.UpdateDonation(f.ctx, "admin", "not-an-id", DonationUpdate{Status: "approved"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteDonationOwnership(t *testing.T) {
	f := newFixture(t)
	donor := f.user(t, "Dan", domain.RoleDonor, domain.BloodGroupAPos)
	stranger := f.user(t, "Sam", domain.RoleDonor, domain.BloodGroupAPos)
	created, err := f.donations.CreateDonation(f.ctx, donor.ID, donationInput("A+", "1"))
	require.NoError(t, err)
	id := created.Donation.ID

	err = f.donations.DeleteDonation(f.ctx, id, stranger.ID)
	derr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeUnauthorized, derr.Code)
	assert.Equal(t, 401, derr.HTTPStatus)

	still, err := f.donations.GetDonation(f.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, created.Donation.Status, still.Donation.Status)

	require.NoError(t, f.donations.DeleteDonation(f.ctx, id, donor.ID))
	_, err = f.donations.GetDonation(f.ctx, id)
	assert.True(t, apperrors.IsNotFound(err))

	err = f.donations.DeleteDonation(f.ctx, id, donor.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListDonorDonations(t *testing.T) {
	f := newFixture(t)
	dan := f.user(t, "Dan", domain.RoleDonor, domain.BloodGroupAPos)
	sam := f.user(t, "Sam", domain.RoleDonor, domain.BloodGroupAPos)
	_, err := f.donations.CreateDonation(f.ctx, dan.ID, donationInput("A+", "1"))
	require.NoError(t, err)
	latest, err := f.donations.CreateDonation(f.ctx, dan.ID, donationInput("A+", "3"))
	require.NoError(t, err)
	_, err = f.donations.CreateDonation(f.ctx, sam.ID, donationInput("A+", "2"))
	require.NoError(t, err)

	mine, err := f.donations.ListDonorDonations(f.ctx, dan.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, latest.Donation.ID, mine[0].Donation.ID)
}
