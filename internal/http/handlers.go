package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/guriri-dispatch/internal/chat"
	"github.com/example/guriri-dispatch/internal/config"
	"github.com/example/guriri-dispatch/internal/dispatch"
	"github.com/example/guriri-dispatch/internal/engine"
	"github.com/example/guriri-dispatch/internal/geocode"
	"github.com/example/guriri-dispatch/internal/ingest"
	"github.com/example/guriri-dispatch/internal/locations"
	"github.com/example/guriri-dispatch/internal/models"
	"github.com/example/guriri-dispatch/internal/observability"
	"github.com/example/guriri-dispatch/internal/payments"
	"github.com/example/guriri-dispatch/internal/storage"
)

type Server struct {
	Engine    *engine.Engine
	Store     storage.Store
	Locations locations.Source
	Dispatch  dispatch.Dispatcher
	WSReg     *dispatch.WSRegistry
	Kafka     *ingest.KafkaProducer
	Geocoder  *geocode.Client
	Payments  *payments.Client
	Responder *chat.Responder

	logger *slog.Logger
	mux    *mux.Router
}

func NewServer(cfg config.ServerConfig, logger *slog.Logger) *Server {
	var locs locations.Source
	if cfg.RedisAddr != "" {
		locs = locations.NewRedisSource(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisGeoKey)
	} else {
		locs = locations.NewIndex()
	}

	var store storage.Store
	if cfg.PGDSN != "" {
		ps, err := storage.NewPostgresStore(cfg.PGDSN)
		if err != nil {
			logger.Error("postgres unavailable, falling back to memory store", "error", err)
		} else {
			store = ps
		}
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}

	var kp *ingest.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		kp = ingest.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	var gc *geocode.Client
	if cfg.GeocodeEndpoint != "" {
		gc = geocode.NewClient(cfg.GeocodeEndpoint)
	}

	wsreg := dispatch.NewWSRegistry()
	s := &Server{
		Engine:    engine.New(store),
		Store:     store,
		Locations: locs,
		Dispatch:  dispatch.NewWebhookDispatcher(cfg.WebhookEndpoint, wsreg),
		WSReg:     wsreg,
		Kafka:     kp,
		Geocoder:  gc,
		Payments:  payments.NewClient(),
		Responder: chat.NewResponder(cfg.ResponseCacheTTL),
		logger:    logger,
		mux:       mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/internal/motoboy/locations", s.handleMotoboyLocation).Methods("POST")
	s.mux.HandleFunc("/api/v1/orders", s.handleCreateOrder).Methods("POST")
	s.mux.HandleFunc("/api/v1/orders/{id}/status", s.handleOrderStatus).Methods("POST")
	s.mux.HandleFunc("/api/v1/motoboys/{id}/route", s.handleMotoboyRoute).Methods("GET")
	s.mux.HandleFunc("/api/v1/insights", s.handleInsights).Methods("GET")
	s.mux.HandleFunc("/api/v1/chat/auto-response", s.handleAutoResponse).Methods("POST")
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/ws/{motoboy_id}", s.handleWS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handleMotoboyLocation(w http.ResponseWriter, r *http.Request) {
	var loc models.MotoboyLocation
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if loc.MotoboyID == "" {
		http.Error(w, "motoboyId required", http.StatusBadRequest)
		return
	}
	if loc.Recorded.IsZero() {
		loc.Recorded = time.Now()
	}
	// kafka is best-effort; the local index stays authoritative for this node
	if s.Kafka != nil {
		if err := s.Kafka.PublishLocation(loc); err != nil {
			s.logger.Warn("location publish failed", "motoboy_id", loc.MotoboyID, "error", err)
		}
	}
	s.Locations.Upsert(loc)
	observability.LocationPings.Inc()
	w.WriteHeader(http.StatusNoContent)
}

type createOrderRequest struct {
	models.Order
	DistanceKm float64 `json:"distanceKm"`
	CustomerID string  `json:"customerId"`
}

type createOrderResponse struct {
	Order        models.Order `json:"order"`
	Assigned     bool         `json:"assigned"`
	AutoAccepted bool         `json:"autoAccepted"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	order := req.Order
	order.ID = uuid.NewString()
	order.MotoboyID = ""
	order.Status = models.StatusPending
	order.CreatedAt = time.Now()

	if order.PickupLat == "" && order.PickupAddress != "" && s.Geocoder != nil {
		if lat, lng, err := s.Geocoder.Lookup(ctx, order.PickupAddress); err != nil {
			s.logger.Warn("geocode failed", "order_id", order.ID, "error", err)
		} else {
			order.PickupLat = strconv.FormatFloat(lat, 'f', 6, 64)
			order.PickupLng = strconv.FormatFloat(lng, 'f', 6, 64)
		}
	}

	if order.CourierFee == "" {
		fee := engine.DynamicFee(req.DistanceKm, order.CreatedAt)
		order.CourierFee = strconv.FormatFloat(fee, 'f', 2, 64)
		observability.DynamicFees.Observe(fee)
	}

	if s.Payments != nil && req.CustomerID != "" {
		ref, err := s.Payments.HoldFreight(ctx, order, req.CustomerID)
		if err != nil {
			s.logger.Error("freight hold failed", "order_id", order.ID, "error", err)
			http.Error(w, "payment hold failed", http.StatusBadGateway)
			return
		}
		order.PaymentRef = ref
	}

	if err := s.Store.SaveOrder(ctx, &order); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := createOrderResponse{Order: order}
	if assigned, accepted, err := s.assignOrder(ctx, &order); err != nil {
		s.logger.Error("assignment failed", "order_id", order.ID, "error", err)
	} else {
		resp.Order = order
		resp.Assigned = assigned
		resp.AutoAccepted = accepted
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// assignOrder runs the selector over the current courier roster and, on a
// hit, offers the order and records the assignment. A no-courier outcome
// leaves the order pending for the caller to retry later.
func (s *Server) assignOrder(ctx context.Context, order *models.Order) (assigned, autoAccepted bool, err error) {
	candidates, err := s.Store.Motoboys(ctx)
	if err != nil {
		return false, false, err
	}
	ids := make([]string, len(candidates))
	for i, m := range candidates {
		ids[i] = m.ID
	}
	locs := s.Locations.Latest(ids)

	motoboyID, ok, err := s.Engine.AssignBestMotoboy(ctx, *order, candidates, locs)
	if err != nil || !ok {
		return false, false, err
	}

	order.MotoboyID = motoboyID
	motoboy, err := s.Store.MotoboyByID(ctx, motoboyID)
	if err == nil && engine.ShouldAutoAccept(*order, motoboy) {
		now := time.Now()
		order.Status = models.StatusInProgress
		order.AcceptedAt = &now
		autoAccepted = true
	}
	if err := s.Store.UpdateOrder(ctx, order); err != nil {
		return false, false, err
	}

	fee := order.CourierFee
	if err := s.Dispatch.Offer(models.AssignmentOffer{OrderID: order.ID, MotoboyID: motoboyID, Fee: fee}); err != nil {
		s.logger.Warn("offer dispatch failed", "order_id", order.ID, "motoboy_id", motoboyID, "error", err)
	}
	return true, autoAccepted, nil
}

type statusRequest struct {
	Status string `json:"status"`
}

var validStatuses = map[string]bool{
	models.StatusPending:    true,
	models.StatusInProgress: true,
	models.StatusDelivered:  true,
	models.StatusCancelled:  true,
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !validStatuses[req.Status] {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}
	ctx := r.Context()

	order, err := s.Store.OrderByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	now := time.Now()
	order.Status = req.Status
	switch req.Status {
	case models.StatusInProgress:
		if order.AcceptedAt == nil {
			order.AcceptedAt = &now
		}
	case models.StatusDelivered:
		order.DeliveredAt = &now
		if s.Payments != nil && order.PaymentRef != "" {
			if err := s.Payments.Capture(ctx, order.PaymentRef); err != nil {
				s.logger.Error("freight capture failed", "order_id", order.ID, "error", err)
			}
		}
	case models.StatusCancelled:
		if s.Payments != nil && order.PaymentRef != "" {
			if err := s.Payments.Cancel(ctx, order.PaymentRef); err != nil {
				s.logger.Error("freight hold release failed", "order_id", order.ID, "error", err)
			}
		}
	}

	if err := s.Store.UpdateOrder(ctx, &order); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, order)
}

func (s *Server) handleMotoboyRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	motoboy, err := s.Store.MotoboyByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "motoboy not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	orders, err := s.Store.Orders(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, engine.OptimizeRoutes(orders, motoboy))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orders, err := s.Store.Orders(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	motoboys, err := s.Store.Motoboys(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, engine.GenerateInsights(orders, motoboys))
}

type autoResponseRequest struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

func (s *Server) handleAutoResponse(w http.ResponseWriter, r *http.Request) {
	var req autoResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reply, ok := s.Responder.Reply(req.Message, req.Category)
	if !ok {
		// no pattern matched, a human needs to answer
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, map[string]string{"response": reply})
}

var upgrader = websocket.Upgrader{}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["motoboy_id"]
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}
	s.WSReg.Add(id, conn)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
