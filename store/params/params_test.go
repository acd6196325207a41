package params

import (
	"context"
	"testing"

	"lending/core"
	"lending/pkg/number"
	"lending/store/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsStore(t *testing.T) {
	ctx := context.Background()
	defaults := core.RiskParameters{
		MinHealthRatio:          number.Decimal("1.1"),
		MaxCollateralAssetCount: 5,
		AllowedCollateral:       []string{"XLM"},
	}

	s := New(kv.NewMemory(), defaults)

	params, err := s.Find(ctx)
	require.Nil(t, err)
	assert.Equal(t, "1.1", params.MinHealthRatio.String())

	params.AllowedCollateral[0] = "BTC"
	assert.Equal(t, "XLM", defaults.AllowedCollateral[0], "defaults are copied")

	params.MaxCollateralAssetCount = 2
	require.Nil(t, s.Save(ctx, params))

	saved, err := s.Find(ctx)
	require.Nil(t, err)
	assert.Equal(t, 2, saved.MaxCollateralAssetCount)
	assert.Equal(t, []string{"BTC"}, saved.AllowedCollateral)
}
