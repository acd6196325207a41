package params

import (
	"context"

	"lending/core"
	"lending/store/kv"
)

const paramsKey = "risk_params"

type paramsStore struct {
	kv       core.PersistentStore
	defaults core.RiskParameters
}

// New new risk parameters store, defaults are served until parameters are saved
func New(s core.PersistentStore, defaults core.RiskParameters) core.IParamsStore {
	return &paramsStore{kv: s, defaults: defaults}
}

func (s *paramsStore) Find(ctx context.Context) (*core.RiskParameters, error) {
	var params core.RiskParameters
	ok, err := kv.GetJSON(ctx, s.kv, paramsKey, &params)
	if err != nil {
		return nil, err
	}

	if !ok {
		params = s.defaults
		params.AllowedCollateral = append([]string(nil), s.defaults.AllowedCollateral...)
	}

	return &params, nil
}

func (s *paramsStore) Save(ctx context.Context, params *core.RiskParameters) error {
	return kv.SetJSON(ctx, s.kv, paramsKey, params)
}
