package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniCatalog/internal/money"
	"MiniCatalog/pkg/kit"
)

type Server struct {
	Store   Store
	Log     *zap.Logger
	Metrics *StoreMetrics

	// Admin, when set, wraps every mutating route.
	Admin func(http.Handler) http.Handler
	// HikeLimiter, when set, throttles price hikes per client.
	HikeLimiter *kit.IPRateLimiter
}

type PriceResp struct {
	Price      string `json:"price"`
	PriceCents int64  `json:"price_cents"`
}

func priceResp(m money.Money) PriceResp {
	return PriceResp{Price: m.String(), PriceCents: m.InCents()}
}

type ItemResp struct {
	ID int64 `json:"id"`
	PriceResp
	Tags []int64 `json:"tags"`
}

type InsertReq struct {
	Price string  `json:"price"`
	Tags  []int64 `json:"tags"`
}

type InsertResp struct {
	Created int `json:"created"`
}

type SumResp struct {
	Sum int64 `json:"sum"`
}

type CountResp struct {
	Count int `json:"count"`
}

type RemoveTagsReq struct {
	Tags []int64 `json:"tags"`
}

type PriceHikeReq struct {
	LowID  int64   `json:"low_id"`
	HighID int64   `json:"high_id"`
	Rate   float64 `json:"rate"`
}

type PriceHikeResp struct {
	Increase PriceResp `json:"increase"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/items/{id}", s.getItem)
	r.Get("/items/{id}/price", s.find)
	r.Get("/tags/{tag}/min", s.minPrice)
	r.Get("/tags/{tag}/max", s.maxPrice)
	r.Get("/tags/{tag}/range", s.priceRange)

	r.Group(func(wr chi.Router) {
		if s.Admin != nil {
			wr.Use(s.Admin)
		}
		wr.Put("/items/{id}", s.insert)
		wr.Delete("/items/{id}", s.delete)
		wr.Post("/items/{id}/remove-tags", s.removeTags)

		if s.HikeLimiter != nil {
			wr.With(s.HikeLimiter.Middleware).Post("/price-hikes", s.priceHike)
		} else {
			wr.Post("/price-hikes", s.priceHike)
		}
	})

	return r
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	s.Metrics.observe("item")

	it, found := s.Store.Item(id)
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, ItemResp{ID: it.ID, PriceResp: priceResp(it.Price), Tags: it.Tags})
}

func (s *Server) find(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	s.Metrics.observe("find")
	kit.WriteJSON(w, http.StatusOK, priceResp(s.Store.Find(id)))
}

func (s *Server) insert(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}

	var req InsertReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}
	price, err := money.Parse(req.Price)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad price", map[string]any{"cause": err.Error()})
		return
	}

	s.Metrics.observe("insert")
	created := s.Store.Insert(id, price, req.Tags)
	s.debug("insert", zap.Int64("id", id), zap.Stringer("price", price), zap.Int("created", created))

	status := http.StatusOK
	if created == 1 {
		status = http.StatusCreated
	}
	kit.WriteJSON(w, status, InsertResp{Created: created})
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	s.Metrics.observe("delete")
	sum := s.Store.Delete(id)
	s.debug("delete", zap.Int64("id", id), zap.Int64("sum", sum))
	kit.WriteJSON(w, http.StatusOK, SumResp{Sum: sum})
}

func (s *Server) removeTags(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}

	var req RemoveTagsReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	s.Metrics.observe("remove_names")
	sum, err := s.Store.RemoveNames(id, req.Tags)
	if errors.Is(err, ErrItemNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if err != nil {
		s.logError("remove names failed", err, zap.Int64("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	s.debug("remove names", zap.Int64("id", id), zap.Int64s("tags", req.Tags), zap.Int64("sum", sum))
	kit.WriteJSON(w, http.StatusOK, SumResp{Sum: sum})
}

func (s *Server) minPrice(w http.ResponseWriter, r *http.Request) {
	tag, ok := intParam(w, r, "tag")
	if !ok {
		return
	}
	s.Metrics.observe("min_price")
	kit.WriteJSON(w, http.StatusOK, priceResp(s.Store.FindMinPrice(tag)))
}

func (s *Server) maxPrice(w http.ResponseWriter, r *http.Request) {
	tag, ok := intParam(w, r, "tag")
	if !ok {
		return
	}
	s.Metrics.observe("max_price")
	kit.WriteJSON(w, http.StatusOK, priceResp(s.Store.FindMaxPrice(tag)))
}

func (s *Server) priceRange(w http.ResponseWriter, r *http.Request) {
	tag, ok := intParam(w, r, "tag")
	if !ok {
		return
	}

	q := r.URL.Query()
	low, err := money.Parse(q.Get("low"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad low", map[string]any{"cause": err.Error()})
		return
	}
	high, err := money.Parse(q.Get("high"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad high", map[string]any{"cause": err.Error()})
		return
	}

	s.Metrics.observe("price_range")
	kit.WriteJSON(w, http.StatusOK, CountResp{Count: s.Store.FindPriceRange(tag, low, high)})
}

func (s *Server) priceHike(w http.ResponseWriter, r *http.Request) {
	var req PriceHikeReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	s.Metrics.observe("price_hike")
	inc, err := s.Store.PriceHike(req.LowID, req.HighID, req.Rate)
	if errors.Is(err, money.ErrInvalidRate) || errors.Is(err, money.ErrOverflow) {
		kit.WriteError(w, r, http.StatusBadRequest, "bad rate", map[string]any{"rate": req.Rate, "cause": err.Error()})
		return
	}
	if err != nil {
		s.logError("price hike failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	if s.Log != nil {
		s.Log.Info("price hike",
			zap.Int64("low_id", req.LowID),
			zap.Int64("high_id", req.HighID),
			zap.Float64("rate", req.Rate),
			zap.Stringer("increase", inc),
		)
	}
	kit.WriteJSON(w, http.StatusOK, PriceHikeResp{Increase: priceResp(inc)})
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad "+name, map[string]any{name: raw})
		return 0, false
	}
	return v, true
}

func (s *Server) debug(msg string, fields ...zap.Field) {
	if s.Log != nil {
		s.Log.Debug(msg, fields...)
	}
}

func (s *Server) logError(msg string, err error, fields ...zap.Field) {
	if s.Log != nil {
		s.Log.Error(msg, append(fields, zap.Error(err))...)
	}
}
