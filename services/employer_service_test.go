package services

import (
	"context"
	"testing"

	"attendance/dto"
	"attendance/errors"
	"attendance/models"
	"attendance/services/qrcode"
	"attendance/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	address  string
	lat, lon float64
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) (float64, float64, error) {
	g.address = address
	return g.lat, g.lon, nil
}

func register(t *testing.T, svc *EmployerService, email string) (models.Account, models.Employer) {
	t.Helper()
	account, employer, err := svc.CreateEmployerProfile(context.Background(), dto.RegisterInput{
		CompanyName: "Acme Ltd",
		Email:       email,
		Password:    "secret1",
		Address:     strPtr("12 Marina"),
		City:        strPtr("Lagos"),
	})
	require.NoError(t, err)
	return account, employer
}

func TestCreateEmployerProfile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := h.employers(nil)

	account, employer := register(t, svc, "Owner@Acme.ng")
	assert.Equal(t, "owner@acme.ng", account.Email)
	assert.Equal(t, "employer", account.Role)
	assert.Equal(t, account.ID, employer.AccountID)
	assert.Equal(t, "Africa/Lagos", employer.Timezone)
	assert.NotEmpty(t, employer.QRSecret)

	profile, err := svc.GetProfile(ctx, employer.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Settings)
	assert.Equal(t, "09:00:00", profile.Settings.ResumptionTime)

	_, _, err = svc.CreateEmployerProfile(ctx, dto.RegisterInput{CompanyName: "Other", Email: "owner@acme.ng", Password: "secret1"})
	assert.True(t, errors.Is(err, errors.ErrUserExists))

	_, _, err = svc.CreateEmployerProfile(ctx, dto.RegisterInput{CompanyName: "Other", Email: "x@acme.ng", Password: "secret1", Timezone: "Mars/Olympus"})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestUpdateProfileInvalidatesPolicy(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := h.employers(nil)
	_, employer := register(t, svc, "owner@acme.ng")

	p, err := h.policies.Get(ctx, employer.ID)
	require.NoError(t, err)
	assert.Nil(t, p.Office)
	assert.True(t, h.mr.Exists("policy:"+employer.ID.String()))

	lat := 6.5
	_, err = svc.UpdateProfile(ctx, employer.ID, dto.UpdateEmployerInput{Latitude: &lat})
	assert.True(t, errors.Is(err, errors.ErrInvalidCoordinate))

	lon := 3.3
	updated, err := svc.UpdateProfile(ctx, employer.ID, dto.UpdateEmployerInput{Latitude: &lat, Longitude: &lon, CompanyName: strPtr("Acme Nigeria")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Nigeria", updated.CompanyName)
	assert.False(t, h.mr.Exists("policy:"+employer.ID.String()))

	p, err = h.policies.Get(ctx, employer.ID)
	require.NoError(t, err)
	require.NotNil(t, p.Office)
	assert.InDelta(t, 6.5, p.Office.Latitude, 1e-9)

	cleared, err := svc.UpdateProfile(ctx, employer.ID, dto.UpdateEmployerInput{ClearOffice: true})
	require.NoError(t, err)
	assert.False(t, cleared.HasOffice())
}

func TestGeocodeStoresOffice(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	geo := &stubGeocoder{lat: 6.4531, lon: 3.3958}
	svc := h.employers(geo)
	_, employer := register(t, svc, "owner@acme.ng")

	updated, err := svc.Geocode(ctx, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Marina, Lagos, Nigeria", geo.address)
	require.True(t, updated.HasOffice())
	assert.InDelta(t, 6.4531, *updated.Latitude, 1e-9)

	_, err = h.employers(nil).Geocode(ctx, employer.ID)
	assert.Equal(t, errors.ErrCodeUpstream, errors.CodeOf(err))
}

func TestQRCodeRotation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := h.employers(nil)
	_, employer := register(t, svc, "owner@acme.ng")

	payload, err := svc.QRCode(ctx, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, employer.ID, payload.EmployerID)
	assert.Equal(t, "Acme Ltd", payload.CompanyName)
	assert.NoError(t, qrcode.Validate(payload.Code, employer, uuid.Nil, 24, h.clock()))

	rotated, err := svc.RotateQRSecret(ctx, employer.ID)
	require.NoError(t, err)

	var reloaded models.Employer
	require.NoError(t, h.db.First(&reloaded, "id = ?", employer.ID).Error)
	assert.NotEqual(t, employer.QRSecret, reloaded.QRSecret)
	assert.NoError(t, qrcode.Validate(rotated.Code, reloaded, uuid.Nil, 24, h.clock()))
	if rotated.Code != payload.Code {
		assert.Error(t, qrcode.Validate(payload.Code, reloaded, uuid.Nil, 24, h.clock()))
	}
}

func TestEmployeeQRCode(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := h.employers(nil)
	_, employer := register(t, svc, "owner@acme.ng")
	ada := testutil.CreateEmployee(t, h.db, employer.ID, "Ada", 5000, date(2026, 1, 1))

	payload, err := svc.EmployeeQRCode(ctx, employer.ID, ada.ID)
	require.NoError(t, err)
	require.NotNil(t, payload.EmployeeID)
	assert.Equal(t, ada.ID, *payload.EmployeeID)
	assert.Equal(t, ada.EmployeeCode, payload.EmployeeCode)

	other := testutil.CreateEmployer(t, h.db, "Globex")
	stranger := testutil.CreateEmployee(t, h.db, other.ID, "Tunde", 5000, date(2026, 1, 1))
	_, err = svc.EmployeeQRCode(ctx, employer.ID, stranger.ID)
	assert.True(t, errors.Is(err, errors.ErrTenantIsolation))

	require.NoError(t, h.db.Model(&models.Employee{}).Where("id = ?", ada.ID).Update("is_active", false).Error)
	_, err = svc.EmployeeQRCode(ctx, employer.ID, ada.ID)
	assert.True(t, errors.Is(err, errors.ErrEmployeeInactive))
}
