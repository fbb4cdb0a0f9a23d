package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/leadforge/campaign-api/internal/analytics"
	"github.com/leadforge/campaign-api/internal/config"
	"github.com/leadforge/campaign-api/internal/dashboard"
	"github.com/leadforge/campaign-api/internal/database"
	"github.com/leadforge/campaign-api/internal/metrics"
	"github.com/leadforge/campaign-api/internal/models"
	"github.com/leadforge/campaign-api/internal/storage"
	"go.uber.org/zap"
)

// Dependencies holds all external dependencies for the server.
type Dependencies struct {
	DB         *database.PostgresDB
	Redis      *database.RedisDB
	ClickHouse *database.ClickHouseDB
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Server wraps HTTP handlers and dashboard services.
type Server struct {
	campaignService  *dashboard.CampaignService
	buyerService     *dashboard.BuyerService
	statsService     *dashboard.StatsService
	reportingService *dashboard.ReportingService
	logger           *zap.Logger
	config           *config.Config
	metrics          *metrics.Metrics
}

// NewServer constructs a new http.Handler with all routes registered.
func NewServer(deps *Dependencies) http.Handler {
	// Initialize repositories
	var cRepo storage.CampaignRepo
	var bRepo storage.BuyerRepo
	var sRepo storage.StatRepo

	if deps.DB != nil {
		cRepo = storage.NewPostgresCampaignRepo(deps.DB.Pool)
		bRepo = storage.NewPostgresBuyerRepo(deps.DB.Pool)
		sRepo = storage.NewPostgresStatRepo(deps.DB.Pool)
	} else {
		cRepo = storage.NewInMemoryCampaignRepo()
		bRepo = storage.NewInMemoryBuyerRepo()
		sRepo = storage.NewInMemoryStatRepo()
	}

	// Initialize the derived-metrics cache
	var cache analytics.MetricsCache
	if deps.Config.Cache.Backend == "redis" && deps.Redis != nil {
		cache = analytics.NewRedisMetricsCache(deps.Redis.Client, deps.Config.Cache.TTL, deps.Logger)
	} else {
		cache = analytics.NewMemoryMetricsCache()
	}

	// Analytical archive is optional
	var archive storage.StatArchive
	if deps.ClickHouse != nil {
		archive = storage.NewClickHouseStatArchive(deps.ClickHouse.Conn)
	}

	advisor := analytics.NewSpendAdvisor(nil)

	s := &Server{
		campaignService:  dashboard.NewCampaignService(cRepo, sRepo),
		buyerService:     dashboard.NewBuyerService(bRepo),
		statsService:     dashboard.NewStatsService(sRepo, cRepo, cache, archive, deps.Metrics, deps.Logger),
		reportingService: dashboard.NewReportingService(cRepo, sRepo, cache, advisor, deps.Metrics, deps.Logger),
		logger:           deps.Logger,
		config:           deps.Config,
		metrics:          deps.Metrics,
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	if deps.Config.Metrics.Enabled {
		mux.Handle(deps.Config.Metrics.Path, metrics.Handler())
	}

	// Campaign management
	mux.HandleFunc("/campaigns", s.handleCampaigns)
	mux.HandleFunc("/campaigns/", s.handleCampaignSubroutes)

	// Buyers
	mux.HandleFunc("/buyers", s.handleBuyers)
	mux.HandleFunc("/buyers/", s.handleBuyerByID)

	// Date-picker presets
	mux.HandleFunc("/presets", s.handlePresets)

	return mux
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ---- Campaigns CRUD ----

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.listCampaigns(r)
		if err != nil {
			s.logger.Error("failed to list campaigns", zap.Error(err))
			s.errorResponse(w, "failed to list", http.StatusInternalServerError)
			return
		}
		s.jsonResponse(w, list)

	case http.MethodPost:
		var c models.Campaign
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := s.campaignService.Upsert(r.Context(), &c); err != nil {
			s.errorResponse(w, "failed to save: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.jsonResponse(w, c)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listCampaigns(r *http.Request) ([]*models.Campaign, error) {
	q := r.URL.Query()
	if buyerID := q.Get("buyer_id"); buyerID != "" {
		return s.campaignService.ListByBuyer(r.Context(), buyerID)
	}
	if status := q.Get("status"); status != "" {
		return s.campaignService.ListByStatus(r.Context(), models.CampaignStatus(status))
	}
	return s.campaignService.List(r.Context())
}

// handleCampaignSubroutes dispatches /campaigns/{id} and its nested
// stats, metrics, comparison and spend-advice resources.
func (s *Server) handleCampaignSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/campaigns/")
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 2)
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		s.handleCampaignByID(w, r, id)
		return
	}

	switch parts[1] {
	case "stats":
		s.handleCampaignStats(w, r, id)
	case "stats/archive":
		s.handleArchivedTotals(w, r, id)
	case "metrics":
		s.handleCampaignMetrics(w, r, id)
	case "comparison":
		s.handleCampaignComparison(w, r, id)
	case "spend-advice":
		s.handleSpendAdvice(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleCampaignByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		c, err := s.campaignService.Get(r.Context(), id)
		if err != nil {
			s.serviceError(w, "failed to get campaign", err)
			return
		}
		s.jsonResponse(w, c)

	case http.MethodDelete:
		if err := s.campaignService.Delete(r.Context(), id); err != nil {
			s.serviceError(w, "failed to delete campaign", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ---- Stat Entries ----

func (s *Server) handleCampaignStats(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.statsService.List(r.Context(), id)
		if err != nil {
			s.serviceError(w, "failed to list stats", err)
			return
		}
		s.jsonResponse(w, records)

	case http.MethodPost:
		var rec models.StatRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		rec.CampaignID = id
		saved, err := s.statsService.Record(r.Context(), &rec)
		if err != nil {
			if errors.Is(err, dashboard.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			s.errorResponse(w, "failed to save: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.jsonResponse(w, saved)

	case http.MethodDelete:
		date := r.URL.Query().Get("date")
		if date == "" {
			s.errorResponse(w, "date required", http.StatusBadRequest)
			return
		}
		if err := s.statsService.Delete(r.Context(), id, date); err != nil {
			s.serviceError(w, "failed to delete stat", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleArchivedTotals reads range sums from the analytical archive,
// for reconciliation against the primary store.
func (s *Server) handleArchivedTotals(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	rng := models.DateRange{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	totals, err := s.statsService.ArchivedTotals(r.Context(), id, rng)
	if err != nil {
		if errors.Is(err, dashboard.ErrNoArchive) {
			s.errorResponse(w, "archive not configured", http.StatusServiceUnavailable)
			return
		}
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, totals)
}

// ---- Metrics Report ----

func (s *Server) handleCampaignMetrics(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	rng := models.DateRange{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	if (rng.StartDate == "") != (rng.EndDate == "") {
		s.errorResponse(w, "start_date and end_date must be provided together", http.StatusBadRequest)
		return
	}

	report, err := s.reportingService.CampaignMetrics(r.Context(), id, rng)
	if err != nil {
		if errors.Is(err, dashboard.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, report)
}

// ---- Period Comparison ----

func (s *Server) handleCampaignComparison(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()

	var report *dashboard.ComparisonReport
	var err error
	if preset := q.Get("preset"); preset != "" {
		report, err = s.reportingService.ComparePreset(r.Context(), id, analytics.PresetKey(preset))
	} else {
		var base, compare analytics.Period
		base, err = analytics.NewPeriod("Base Period", q.Get("base_start_date"), q.Get("base_end_date"))
		if err == nil {
			compare, err = analytics.NewPeriod("Comparison Period", q.Get("compare_start_date"), q.Get("compare_end_date"))
		}
		if err != nil {
			s.errorResponse(w, "invalid comparison window: "+err.Error(), http.StatusBadRequest)
			return
		}
		report, err = s.reportingService.ComparePeriods(r.Context(), id, base, compare)
	}

	if err != nil {
		if errors.Is(err, dashboard.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, report)
}

// ---- Spend Advice ----

func (s *Server) handleSpendAdvice(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	rng := models.DateRange{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	rec, err := s.reportingService.SpendAdvice(r.Context(), id, rng)
	if err != nil {
		if errors.Is(err, dashboard.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rec == nil {
		s.jsonResponse(w, map[string]string{"status": "no data"})
		return
	}
	s.jsonResponse(w, rec)
}

// ---- Buyers CRUD ----

func (s *Server) handleBuyers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.buyerService.List(r.Context())
		if err != nil {
			s.errorResponse(w, "failed to list", http.StatusInternalServerError)
			return
		}
		s.jsonResponse(w, list)

	case http.MethodPost:
		var b models.Buyer
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := s.buyerService.Upsert(r.Context(), &b); err != nil {
			s.errorResponse(w, "failed to save: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.jsonResponse(w, b)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleBuyerByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/buyers/"), "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		b, err := s.buyerService.Get(r.Context(), id)
		if err != nil {
			s.serviceError(w, "failed to get buyer", err)
			return
		}
		s.jsonResponse(w, b)

	case http.MethodDelete:
		if err := s.buyerService.Delete(r.Context(), id); err != nil {
			s.serviceError(w, "failed to delete buyer", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ---- Presets ----

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.jsonResponse(w, s.reportingService.Presets())
}

// ---- Helper Methods ----

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (s *Server) serviceError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, dashboard.ErrNotFound) {
		s.errorResponse(w, "not found", http.StatusNotFound)
		return
	}
	s.logger.Error(message, zap.Error(err))
	s.errorResponse(w, message, http.StatusInternalServerError)
}
