package rest

import (
	"context"
	"errors"
	"net/http"

	"lending/core"
	"lending/handler/render"
	"lending/internal/ratemodel"
	"lending/service/host"

	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
)

// Handler read only views of pools and margin accounts
type Handler struct {
	host      *host.Host
	poolStore core.IPoolStore
	pools     core.IPoolService
	accounts  core.IAccountService
	risk      core.IRiskService
	model     *ratemodel.Model
	decoder   *schema.Decoder
}

// New new rest handler
func New(
	h *host.Host,
	poolStore core.IPoolStore,
	pools core.IPoolService,
	accounts core.IAccountService,
	risk core.IRiskService,
	model *ratemodel.Model,
) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	decoder.SetAliasTag("json")

	return &Handler{
		host:      h,
		poolStore: poolStore,
		pools:     pools,
		accounts:  accounts,
		risk:      risk,
		model:     model,
		decoder:   decoder,
	}
}

// Handle restful apis
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Route("/pools", func(r chi.Router) {
		r.Get("/", h.serve(h.allPools))
		r.Get("/{symbol}", h.serve(h.pool))
		r.Get("/{symbol}/lenders", h.serve(h.lenders))
	})

	r.Get("/accounts/{user}", h.serve(h.account))
	return r
}

// errBadRequest malformed request parameters
type errBadRequest struct {
	err error
}

func (e errBadRequest) Error() string {
	return e.err.Error()
}

type viewFunc func(ctx context.Context, r *http.Request) (interface{}, error)

// serve run fn between operations and render its result
func (h *Handler) serve(fn viewFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var out interface{}
		err := h.host.View(r.Context(), func(ctx context.Context) error {
			var err error
			out, err = fn(ctx, r)
			return err
		})

		var bad errBadRequest
		switch {
		case errors.As(err, &bad):
			render.BadRequest(w, bad.err)
		case err != nil:
			render.Error(w, err)
		default:
			render.JSON(w, out)
		}
	}
}
