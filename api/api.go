// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/blocklords/lordchain-smartcontracts/factory"
	"github.com/blocklords/lordchain-smartcontracts/governance"
	"github.com/blocklords/lordchain-smartcontracts/log"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/reverts"
)

var logger = log.WithContext("pkg", "api")

// API is the read-only HTTP surface over the staking deployment.
type API struct {
	factory    *factory.Factory
	governance *governance.Governance
}

// New builds the http handler.
func New(f *factory.Factory, g *governance.Governance) http.Handler {
	api := &API{factory: f, governance: g}

	router := mux.NewRouter()
	router.HandleFunc("/health", api.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/stats", api.handleStats).Methods(http.MethodGet)
	router.HandleFunc("/validators", api.handleValidators).Methods(http.MethodGet)

	return handlers.RecoveryHandler()(handlers.CompressHandler(router))
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"totalStakedAmount":  formatWei(a.factory.TotalStakedAmount()),
		"totalStakedWallets": a.factory.TotalStakedWallet().String(),
		"validatorCount":     a.factory.ValidatorCount(),
		"proposalCount":      a.governance.ProposalCount(),
	})
}

func (a *API) handleValidators(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var user lordchain.Address
	if raw := query.Get("user"); raw != "" {
		parsed, err := lordchain.ParseAddress(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.Wrap(err, "user"))
			return
		}
		user = *parsed
	}
	page, err := parseUint(query.Get("page"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "page"))
		return
	}
	size, err := parseUint(query.Get("size"), 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "size"))
		return
	}

	data, err := a.factory.GetAllValidatorData(user, page, size)
	if err != nil {
		status := http.StatusInternalServerError
		if reverts.IsRevertErr(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	out := make([]map[string]any, 0, len(data.Validators))
	for i, stats := range data.Validators {
		boost := data.Boosts[i]
		userStats := data.Users[i]
		out = append(out, map[string]any{
			"address":       stats.Address.String(),
			"owner":         stats.Owner.String(),
			"quality":       stats.Quality,
			"id":            stats.ID,
			"name":          stats.Name,
			"totalStaked":   formatWei(stats.TotalStaked),
			"claimed":       stats.IsClaimed,
			"paused":        stats.IsPaused,
			"rewardPeriods": stats.RewardPeriods,
			"boost": map[string]any{
				"periods":     boost.BoostPeriods,
				"lastEnd":     boost.LastBoostEnd,
				"totalReward": formatWei(boost.TotalBoostReward),
			},
			"user": map[string]any{
				"amount":       formatWei(userStats.Amount),
				"lockStart":    userStats.LockStart,
				"lockEnd":      userStats.LockEnd,
				"autoMax":      userStats.AutoMax,
				"pending":      formatWei(userStats.Pending),
				"pendingBoost": formatWei(userStats.PendingBoost),
				"veBalance":    formatWei(userStats.VeBalance),
			},
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func parseUint(raw string, fallback uint64) (uint64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
