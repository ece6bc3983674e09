package services

import (
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/booking-backend/internal/database"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newFareServiceWithMock(t *testing.T) (*FareService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	cardRepo := database.NewDiscountCardRepository(sqlxDB)
	return NewFareService(cardRepo, testLogger()), mock
}

func cardRows(name string, percentage float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "percentage", "user_selectable", "created_at"}).
		AddRow(uuid.New(), name, percentage, false, time.Now())
}

func noneCard() *models.DiscountCard {
	return &models.DiscountCard{ID: uuid.New(), Name: models.CardNone, Percentage: 0, UserSelectable: true}
}

func TestAgeTier(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	born := func(age int) time.Time {
		return now.AddDate(-age, 0, -1) // birthday already passed this year
	}

	tests := []struct {
		age  int
		want string
	}{
		{0, models.CardChild},
		{5, models.CardChild},
		{8, models.CardChild},
		{9, models.CardMinor},
		{15, models.CardMinor},
		{18, models.CardMinor},
		{19, models.CardNone},
		{40, models.CardNone},
		{64, models.CardNone},
		{65, models.CardSenior},
		{90, models.CardSenior},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeTier(born(tt.age), now), "age %d", tt.age)
	}
}

func TestAgeInYearsBirthdayAdjustment(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	// Turns 9 tomorrow: still 8 today.
	born := time.Date(2017, time.June, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 8, AgeInYears(born, now))

	// Turned 9 today.
	born = time.Date(2017, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 9, AgeInYears(born, now))
}

func TestAgeInYearsLeapYearBirth(t *testing.T) {
	// Born after February in a leap year, aged in a common year. YearDay
	// shifts by one across that pair, so the comparison must use month
	// and day.
	born := time.Date(2016, time.March, 1, 0, 0, 0, 0, time.UTC)

	ref := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, AgeInYears(born, ref), "on the birthday itself")

	ref = time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 9, AgeInYears(born, ref), "the day before")

	// Feb 29 birthdays roll over on March 1 in common years.
	born = time.Date(2016, time.February, 29, 0, 0, 0, 0, time.UTC)
	ref = time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 9, AgeInYears(born, ref))
	ref = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, AgeInYears(born, ref))
}

func TestLeadTimeTier(t *testing.T) {
	now := time.Date(2026, time.June, 15, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		days int
		want string
	}{
		{60, models.CardLeadTime30},
		{30, models.CardLeadTime30},
		{29, models.CardLeadTime8},
		{9, models.CardLeadTime8},
		{8, models.CardNone},
		{1, models.CardNone},
		{0, models.CardNone},
		{-3, models.CardNone}, // past departure is not an error
	}

	for _, tt := range tests {
		departure := now.AddDate(0, 0, tt.days)
		assert.Equal(t, tt.want, LeadTimeTier(departure, now), "%d days ahead", tt.days)
	}
}

func TestLeadTimeDaysIgnoresTimezones(t *testing.T) {
	paris := time.FixedZone("CET", 1*60*60)

	// 00:30 CET on July 15 is still July 14 in UTC. Both timestamps must
	// be read on the same clock or the bucket shifts by a day.
	departure := time.Date(2026, time.July, 15, 0, 30, 0, 0, paris)
	now := time.Date(2026, time.June, 14, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, LeadTimeDays(departure, now.In(paris)))
	assert.Equal(t, 30, LeadTimeDays(departure.UTC(), now))
}

func TestQuoteCumulativeDiscount(t *testing.T) {
	service, mock := newFareServiceWithMock(t)

	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
	born := now.AddDate(-10, 0, -1)    // minor tier
	departure := now.AddDate(0, 0, 40) // J-30 tier

	mock.ExpectQuery("SELECT (.+) FROM discount_cards").
		WithArgs(models.CardMinor).
		WillReturnRows(cardRows(models.CardMinor, 10))
	mock.ExpectQuery("SELECT (.+) FROM discount_cards").
		WithArgs(models.CardLeadTime30).
		WillReturnRows(cardRows(models.CardLeadTime30, 8))

	breakdown, err := service.Quote(100, noneCard(), born, departure, now)
	require.NoError(t, err)

	assert.Equal(t, 18.0, breakdown.TotalPercent)
	assert.Equal(t, 82.0, breakdown.Price)
	assert.Equal(t, models.CardMinor, breakdown.AgeTierCard)
	assert.Equal(t, models.CardLeadTime30, breakdown.LeadTimeCard)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteClampsAtFullDiscount(t *testing.T) {
	service, mock := newFareServiceWithMock(t)

	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
	born := now.AddDate(-70, 0, -1)    // senior tier
	departure := now.AddDate(0, 0, 45) // J-30 tier

	mock.ExpectQuery("SELECT (.+) FROM discount_cards").
		WithArgs(models.CardSenior).
		WillReturnRows(cardRows(models.CardSenior, 20))
	mock.ExpectQuery("SELECT (.+) FROM discount_cards").
		WithArgs(models.CardLeadTime30).
		WillReturnRows(cardRows(models.CardLeadTime30, 8))

	card := &models.DiscountCard{ID: uuid.New(), Name: "liberte", Percentage: 90, UserSelectable: true}

	breakdown, err := service.Quote(100, card, born, departure, now)
	require.NoError(t, err)

	assert.Equal(t, 100.0, breakdown.TotalPercent)
	assert.Equal(t, 0.0, breakdown.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRoundsToTwoDecimals(t *testing.T) {
	service, mock := newFareServiceWithMock(t)

	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
	born := now.AddDate(-30, 0, -1)    // no age tier
	departure := now.AddDate(0, 0, 10) // J-8 tier

	mock.ExpectQuery("SELECT (.+) FROM discount_cards").
		WithArgs(models.CardLeadTime8).
		WillReturnRows(cardRows(models.CardLeadTime8, 4))

	// 33.33 * 0.96 = 31.9968 -> 32.00
	breakdown, err := service.Quote(33.33, noneCard(), born, departure, now)
	require.NoError(t, err)

	assert.Equal(t, 32.0, breakdown.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteIsDeterministic(t *testing.T) {
	service, mock := newFareServiceWithMock(t)

	now := time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)
	born := now.AddDate(-42, 0, -1)
	departure := now.AddDate(0, 0, 2)

	// Adult booking 2 days out hits no system card at all, so the quote
	// never touches the database.
	first, err := service.Quote(59.9, noneCard(), born, departure, now)
	require.NoError(t, err)
	second, err := service.Quote(59.9, noneCard(), born, departure, now)
	require.NoError(t, err)

	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, 59.9, first.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}
