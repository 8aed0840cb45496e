package simapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"deepsea/internal/corridor"
	"deepsea/internal/duel"
	"deepsea/internal/gamedata"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxBatch bounds /api/duel/batch so one request cannot pin the server.
const maxBatch = 10000

// Server exposes the duel engine and corridor tables over HTTP for balancing.
type Server struct {
	engine *duel.Engine
	data   *gamedata.Data
	logger *zap.Logger
}

func NewServer(engine *duel.Engine, data *gamedata.Data, logger *zap.Logger) *Server {
	return &Server{engine: engine, data: data, logger: logger}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/duel/simulate", s.handleSimulate).Methods("POST")
	r.HandleFunc("/api/duel/batch", s.handleBatch).Methods("POST")
	r.HandleFunc("/api/skills", s.handleSkills).Methods("GET")
	r.HandleFunc("/api/species", s.handleSpecies).Methods("GET")
	r.HandleFunc("/api/corridor/tier", s.handleTier).Methods("GET")
	return r
}

type simulateRequest struct {
	Seed int64           `json:"seed"`
	N    int             `json:"n,omitempty"`
	A    duel.RosterSpec `json:"a"`
	B    duel.RosterSpec `json:"b"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*simulateRequest, bool) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return nil, false
	}
	var err error
	if req.A, err = Fill(s.data.Species, req.A); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if req.B, err = Fill(s.data.Species, req.B); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &req, true
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	res, err := s.engine.Run(duel.NewRand(req.Seed), req.A, req.B)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("simulated duel", zap.Int64("seed", req.Seed), zap.String("winner", res.WinnerID))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	if req.N <= 0 || req.N > maxBatch {
		writeError(w, http.StatusBadRequest, "n must be in 1.."+strconv.Itoa(maxBatch))
		return
	}
	st, err := Batch(s.engine, req.Seed, req.N, req.A, req.B)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"creatures": s.engine.Skills().Names()})
}

func (s *Server) handleSpecies(w http.ResponseWriter, r *http.Request) {
	out := []duel.CreatureSpec{}
	for _, sp := range s.data.Species.All() {
		out = append(out, sp.CreatureSpec())
	}
	writeJSON(w, http.StatusOK, out)
}

type tierResponse struct {
	Strength   int     `json:"strength"`
	Tier       int     `json:"tier"`
	GuardsR4   int     `json:"guards_r4"`
	GuardsR5   int     `json:"guards_r5"`
	Currency   int     `json:"currency"`
	Craft      int     `json:"craft"`
	Containers float64 `json:"containers"`
	RareChance float64 `json:"rare_chance"`
}

func (s *Server) handleTier(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("rarities")
	parts := strings.Split(raw, ",")
	if raw == "" || len(parts) != duel.RosterSize {
		writeError(w, http.StatusBadRequest, "rarities must list 5 values, e.g. 5,5,4,3,2")
		return
	}
	rs := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 1 || v > 5 {
			writeError(w, http.StatusBadRequest, "bad rarity "+strconv.Quote(p))
			return
		}
		rs = append(rs, v)
	}
	st := corridor.Strength(rs)
	t := corridor.TierFor(s.data.Corridor, st)
	writeJSON(w, http.StatusOK, tierResponse{
		Strength:   st,
		Tier:       t.Tier,
		GuardsR4:   t.GuardsR4,
		GuardsR5:   t.GuardsR5,
		Currency:   t.Currency,
		Craft:      t.Craft,
		Containers: t.Containers,
		RareChance: t.RareChance,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
