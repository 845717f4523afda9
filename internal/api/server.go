package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"coinvault/internal/config"
	"coinvault/internal/economy"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"
)

type Server struct {
	cfg  config.APIConfig
	log  *slog.Logger
	econ *economy.Service
	mux  *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, econ *economy.Service) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:  cfg,
		log:  logger,
		econ: econ,
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(s.mux)
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Post("/user", s.handleCreateUser)
	r.Get("/user/{uuid}", s.handleGetUser)
	r.Get("/user/{uuid}/wallet", s.handleGetWallet)
	r.Get("/user/{uuid}/bank", s.handleGetBank)
	r.Post("/user/{uuid}/transfer", s.handleTransfer)

	r.Post("/market/sell/{uuid}", s.handleSell)
	r.Post("/market/buy/{uuid}", s.handleBuy)
	r.Get("/market/items", s.handleMarketItems)
	r.Get("/market/item/{key}", s.handleMarketItem)
	r.Get("/market/items/light", s.handleMarketItemsLight)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PlayerUUID string `json:"player_uuid"`
		PlayerName string `json:"player_name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.PlayerUUID = strings.TrimSpace(in.PlayerUUID)
	in.PlayerName = strings.TrimSpace(in.PlayerName)
	if in.PlayerUUID == "" {
		in.PlayerUUID = uuid.NewString()
	}
	if in.PlayerName == "" {
		writeError(w, http.StatusBadRequest, "player_name is required")
		return
	}

	id, err := s.econ.CreateAccount(r.Context(), in.PlayerUUID, in.PlayerName)
	if err != nil {
		if errors.Is(err, economy.ErrAccountExists) {
			writeJSON(w, http.StatusOK, economy.RegisterResult{
				Message: "player already registered",
			})
			return
		}
		s.writeDomainError(w, err)
		return
	}
	s.log.Info("account created", "player_uuid", in.PlayerUUID, "user_id", id)
	writeJSON(w, http.StatusOK, economy.RegisterResult{
		Success: true,
		UserID:  id,
		Message: "user created successfully",
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	account, err := s.econ.AccountByUUID(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	balance, err := s.econ.Wallet(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"wallet": balance})
}

func (s *Server) handleGetBank(w http.ResponseWriter, r *http.Request) {
	balance, err := s.econ.Bank(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bank": balance})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var in struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount int64  `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.econ.Transfer(r.Context(), chi.URLParam(r, "uuid"),
		economy.Store(strings.ToLower(strings.TrimSpace(in.From))),
		economy.Store(strings.ToLower(strings.TrimSpace(in.To))),
		in.Amount)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ItemKey  string `json:"item_key"`
		Quantity int64  `json:"quantity"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.econ.Sell(r.Context(), chi.URLParam(r, "uuid"), strings.TrimSpace(in.ItemKey), in.Quantity)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ItemKey  string `json:"item_key"`
		Quantity int64  `json:"quantity"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.econ.Buy(r.Context(), chi.URLParam(r, "uuid"), strings.TrimSpace(in.ItemKey), in.Quantity)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMarketItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.econ.MarketItems(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []economy.MarketItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleMarketItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.econ.MarketItem(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleMarketItemsLight(w http.ResponseWriter, r *http.Request) {
	items, err := s.econ.MarketItemsLight(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []economy.MarketItemLight{}
	}
	writeJSON(w, http.StatusOK, items)
}

// writeDomainError maps domain errors to status codes. Anything that is not
// a missing entity is surfaced generically; the detail stays in the log.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, economy.ErrAccountNotFound), errors.Is(err, economy.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
