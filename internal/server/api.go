package server

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rvalen1123/msc-admin-assist-sub001/internal/export"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
)

// crud serves list/get/create/update/delete for one record kind.
type crud[T any, P store.Record[T]] struct {
	repo   store.Repository[T]
	logger *zap.Logger
}

func newCRUD[T any, P store.Record[T]](repo store.Repository[T], logger *zap.Logger) *crud[T, P] {
	return &crud[T, P]{repo: repo, logger: logger}
}

// routes registers the handlers plus any extra routes under the same prefix.
func (c *crud[T, P]) routes(extra func(chi.Router)) func(chi.Router) {
	return func(r chi.Router) {
		if extra != nil {
			extra(r)
		}
		r.Get("/", c.list)
		r.Post("/", c.create)
		r.Get("/{id}", c.get)
		r.Put("/{id}", c.update)
		r.Delete("/{id}", c.remove)
	}
}

func (c *crud[T, P]) list(w http.ResponseWriter, r *http.Request) {
	items, err := c.repo.List(r.Context())
	if err != nil {
		failWith(c.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (c *crud[T, P]) get(w http.ResponseWriter, r *http.Request) {
	item, err := c.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		failWith(c.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (c *crud[T, P]) create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := readJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	P(&item).Metadata().ID = ""
	created, err := c.repo.Add(r.Context(), item)
	if err != nil {
		failWith(c.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (c *crud[T, P]) update(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := readJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	P(&item).Metadata().ID = chi.URLParam(r, "id")
	updated, err := c.repo.Update(r.Context(), item)
	if err != nil {
		failWith(c.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (c *crud[T, P]) remove(w http.ResponseWriter, r *http.Request) {
	if err := c.repo.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		failWith(c.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := s.intake.Templates(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tpls)
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.intake.Template(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.intake.Session(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.intake.Records().Products.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.intake.Records().Orders.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.intake.Records().Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) orderSummary(w http.ResponseWriter, r *http.Request) {
	order, err := s.intake.Records().Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteOrderSummary(&buf, order); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="order-`+order.ID+`.pdf"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) exportSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := s.intake.Records().Submissions.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteSubmissions(&buf, submissions); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="submissions.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	failWith(s.logger, w, r, err)
}

func failWith(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
