package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStorage_FindActivePayment(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	clientID := factory.CreateClient(t, "Anna", "Weber", "anna@example.com")
	typeID := factory.CreateSubscriptionType(t, "Business")
	subID := factory.CreateSubscription(t, clientID, typeID, "office pc", day(2024, time.January, 1))

	today := day(2024, time.June, 15)
	amount := decimal.RequireFromString("120.00")

	// Два платежа покрывают сегодняшний день: активным считается
	// первый добавленный, а не тот, что заканчивается позже.
	first := factory.CreatePayment(t, subID, clientID, 12,
		amount, day(2024, time.January, 1), day(2025, time.January, 1))
	factory.CreatePayment(t, subID, clientID, 24,
		amount, day(2024, time.February, 1), day(2026, time.February, 1))
	// Истёкший платёж не участвует.
	factory.CreatePayment(t, subID, clientID, 1,
		amount, day(2023, time.January, 1), day(2023, time.February, 1))

	got, err := storage.FindActivePayment(context.Background(), subID, today)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first, got.ID)

	t.Run("no covering payment returns nil", func(t *testing.T) {
		got, err := storage.FindActivePayment(context.Background(), subID, day(2030, time.January, 1))
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStorage_FindLastPayment(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	clientID := factory.CreateClient(t, "Anna", "Weber", "anna@example.com")
	typeID := factory.CreateSubscriptionType(t, "Business")
	subID := factory.CreateSubscription(t, clientID, typeID, "office pc", day(2024, time.January, 1))

	amount := decimal.RequireFromString("60.00")

	// Последний добавленный платёж заканчивается раньше первого —
	// FindLastPayment всё равно должен вернуть его.
	factory.CreatePayment(t, subID, clientID, 24,
		amount, day(2024, time.January, 1), day(2026, time.January, 1))
	lastInserted := factory.CreatePayment(t, subID, clientID, 1,
		amount, day(2024, time.February, 1), day(2024, time.March, 1))

	got, err := storage.FindLastPayment(context.Background(), subID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, lastInserted, got.ID)

	t.Run("subscription without payments returns nil", func(t *testing.T) {
		emptySub := factory.CreateSubscription(t, clientID, typeID, "spare", day(2024, time.January, 1))
		got, err := storage.FindLastPayment(context.Background(), emptySub)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStorage_FindSubscriptionsExpiringInDays(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	clientID := factory.CreateClient(t, "Anna", "Weber", "anna@example.com")
	typeID := factory.CreateSubscriptionType(t, "Business")

	amount := decimal.RequireFromString("99.00")
	today := time.Now().UTC().Truncate(24 * time.Hour)

	// Истекает ровно через 7 дней — попадает в выборку.
	matching := factory.CreateSubscription(t, clientID, typeID, "matching", today)
	factory.CreatePayment(t, matching, clientID, 1, amount, today, today.AddDate(0, 0, 7))
	// Два платежа с одинаковой датой окончания — подписка не должна дублироваться.
	factory.CreatePayment(t, matching, clientID, 1, amount, today, today.AddDate(0, 0, 7))

	// Истекает через 8 дней — точное совпадение обязательно.
	offByOne := factory.CreateSubscription(t, clientID, typeID, "off by one", today)
	factory.CreatePayment(t, offByOne, clientID, 1, amount, today, today.AddDate(0, 0, 8))

	got, err := storage.FindSubscriptionsExpiringInDays(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, matching, got[0].ID)
}
