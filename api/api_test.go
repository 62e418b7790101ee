// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blocklords/lordchain-smartcontracts/clock"
	"github.com/blocklords/lordchain-smartcontracts/env"
	"github.com/blocklords/lordchain-smartcontracts/factory"
	"github.com/blocklords/lordchain-smartcontracts/governance"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/state"
	"github.com/blocklords/lordchain-smartcontracts/token"
)

func newTestServer(t *testing.T) (*httptest.Server, lordchain.Address) {
	st := state.New()
	ledger := token.NewStateLedger(lordchain.BytesToAddress([]byte("lrds-token")), st)
	e := env.New(st, clock.NewManual(100), ledger, lordchain.DefaultConfig())

	admin := lordchain.BytesToAddress([]byte("admin"))
	f, err := factory.New(e, lordchain.BytesToAddress([]byte("factory")), admin)
	require.NoError(t, err)
	master, err := f.CreateValidator(admin, admin, lordchain.MasterQuality, lordchain.BytesToAddress([]byte("verifier")))
	require.NoError(t, err)

	g := governance.New(e, lordchain.BytesToAddress([]byte("governance")), admin, admin, f)
	require.NoError(t, f.SetGovernance(admin, g.Address(), g))

	user := lordchain.BytesToAddress([]byte("user"))
	amount := new(big.Int).Mul(big.NewInt(25), lordchain.Multiplier)
	require.NoError(t, ledger.Mint(user, amount))
	require.NoError(t, master.CreateLock(user, amount, e.Config().MinLock))

	srv := httptest.NewServer(New(f, g))
	t.Cleanup(srv.Close)
	return srv, user
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestStats(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "25", body["totalStakedAmount"])
	assert.Equal(t, "1", body["totalStakedWallets"])
	assert.Equal(t, float64(1), body["validatorCount"])
}

func TestValidators(t *testing.T) {
	srv, user := newTestServer(t)

	res, err := http.Get(srv.URL + "/validators?user=" + user.String())
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, float64(1), body[0]["quality"])
	userPart := body[0]["user"].(map[string]any)
	assert.Equal(t, "25", userPart["amount"])
}

func TestValidators_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/validators?page=99")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err = http.Get(srv.URL + "/validators?user=nothex")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
