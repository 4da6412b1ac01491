package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/caseclub-lab/backend/config"
	"github.com/caseclub-lab/backend/pkg/errorx"
	"github.com/caseclub-lab/backend/pkg/logger"
	"github.com/caseclub-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(xcontext.Context, *Request) (*Response, error)
type MiddlewareFunc func(xcontext.Context) error
type CloserFunc func(xcontext.Context)

type Router struct {
	mux    *http.ServeMux
	cfg    config.Configs
	logger logger.Logger
	db     *gorm.DB

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	r.closers = append(r.closers, handleResponse())
	return r
}

// Branch returns a router sharing the same mux but with independent
// middleware chains.
func (r *Router) Branch() *Router {
	return &Router{
		mux:    r.mux,
		cfg:    r.cfg,
		logger: r.logger,
		db:     r.db,

		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Raw registers a plain http handler (websocket upgrades) outside of the
// request/response envelope.
func (r *Router) Raw(pattern string, handler http.HandlerFunc) {
	r.mux.HandleFunc(pattern, handler)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPost, pattern, handler)
}

func route[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, httpReq *http.Request) {
		ctx := xcontext.NewContext(httpReq.Context(), httpReq, w, r.cfg, r.logger, r.db)

		func() {
			if httpReq.Method != method {
				xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Not supported method %s", httpReq.Method))
				return
			}

			for _, m := range r.befores {
				if err := m(ctx); err != nil {
					xcontext.SetError(ctx, err)
					return
				}
			}

			var req Request
			if err := bindRequest(httpReq, &req); err != nil {
				ctx.Logger().Debugf("Cannot bind the request: %v", err)
				xcontext.SetError(ctx, errorx.New(errorx.BadRequest, "Cannot parse the request"))
				return
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			xcontext.SetResponse(ctx, resp)

			for _, m := range r.afters {
				if err := m(ctx); err != nil {
					xcontext.SetError(ctx, err)
					return
				}
			}
		}()

		for _, closer := range r.closers {
			closer(ctx)
		}
	})
}

func bindRequest(httpReq *http.Request, req any) error {
	if httpReq.Method == http.MethodGet {
		return bindQuery(httpReq.URL.Query(), req)
	}

	if err := json.NewDecoder(httpReq.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}
