package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
)

func TestPriceTable_KnownCombinations(t *testing.T) {
	table := DefaultPriceTable()

	price, err := table.Price(1, 7)
	assert.NoError(t, err)
	assert.Equal(t, Price{Amount: 4.99, Currency: "USD"}, price)

	price, err = table.Price(2, 15)
	assert.NoError(t, err)
	assert.Equal(t, Price{Amount: 17.99, Currency: "USD"}, price)

	price, err = table.Price(3, 30)
	assert.NoError(t, err)
	assert.Equal(t, Price{Amount: 44.99, Currency: "USD"}, price)
}

func TestPriceTable_RejectsUnknownInputs(t *testing.T) {
	table := DefaultPriceTable()

	_, err := table.Price(0, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidBoostLevel)

	_, err = table.Price(4, 7)
	assert.ErrorIs(t, err, domain.ErrInvalidBoostLevel)

	_, err = table.Price(2, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}
