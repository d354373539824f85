package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/bankcore/internal/events"
	"github.com/nkiryanov/bankcore/internal/logger"
	"github.com/nkiryanov/bankcore/internal/repository/postgres"
	"github.com/nkiryanov/bankcore/internal/service/account"
	"github.com/nkiryanov/bankcore/internal/service/customer"
	"github.com/nkiryanov/bankcore/internal/service/movement"
	"github.com/nkiryanov/bankcore/internal/service/report"
	"github.com/nkiryanov/bankcore/internal/testutil"
)

// customerServer knows exactly one active customer
func customerServer(t *testing.T, active uuid.UUID) string {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, active.String()) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"customer_id": "`+active.String()+`", "name": "Jose Lema", "status": true}`)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func call(t *testing.T, method, url, body string) (int, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v), "body: %s", body)
	return v
}

func Test_Router(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	customerID := uuid.New()
	customers := customer.NewClient(customer.Config{Addr: customerServer(t, customerID)}, logger.NewNoOpLogger())

	// Production services bound to a transaction that is rolled back after each test
	withServer := func(t *testing.T, fn func(url string)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			l := logger.NewNoOpLogger()
			storage := postgres.NewStorage(tx)
			publisher := events.NewPublisher(events.Config{}, &events.LogTransport{Logger: l}, l)

			h := NewRouter(Services{
				Accounts:  account.NewService(storage, customers, publisher, l),
				Movements: movement.NewService(storage, publisher, l),
				Reports:   report.NewService(storage, customers, l),
				DB:        pg.Pool,
			}, l)

			srv := httptest.NewServer(h)
			defer srv.Close()

			fn(srv.URL)
		})
	}

	createAccount := func(t *testing.T, url, number, initial string) accountResponse {
		t.Helper()
		code, body := call(t, http.MethodPost, url+"/api/v1/accounts", `{
			"account_number": "`+number+`",
			"account_type": "SAVINGS",
			"initial_balance": "`+initial+`",
			"customer_id": "`+customerID.String()+`"
		}`)
		require.Equalf(t, http.StatusCreated, code, "body: %s", body)
		return decode[accountResponse](t, body)
	}

	createMovement := func(t *testing.T, url string, accountID uuid.UUID, typ, amount string) (int, string) {
		t.Helper()
		return call(t, http.MethodPost, url+"/api/v1/movements", `{
			"account_id": "`+accountID.String()+`",
			"movement_type": "`+typ+`",
			"amount": "`+amount+`"
		}`)
	}

	t.Run("accounts", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			withServer(t, func(url string) {
				a := createAccount(t, url, "478758", "2000")

				require.Equal(t, "478758", a.Number)
				require.Equal(t, "2000.00", a.InitialBalance)
				require.Equal(t, "2000.00", a.CurrentBalance)
				require.EqualValues(t, "ACTIVE", a.Status)
				require.Equal(t, customerID, a.CustomerID)
			})
		})

		t.Run("create duplicate number", func(t *testing.T) {
			withServer(t, func(url string) {
				createAccount(t, url, "478758", "2000")

				code, body := call(t, http.MethodPost, url+"/api/v1/accounts", `{
					"account_number": "478758",
					"account_type": "CHECKING",
					"initial_balance": "10",
					"customer_id": "`+customerID.String()+`"
				}`)

				require.Equalf(t, http.StatusConflict, code, "body: %s", body)
			})
		})

		t.Run("create invalid fields", func(t *testing.T) {
			withServer(t, func(url string) {
				code, body := call(t, http.MethodPost, url+"/api/v1/accounts", `{
					"account_number": "12ab",
					"account_type": "GOLD",
					"customer_id": "`+customerID.String()+`"
				}`)

				require.Equal(t, http.StatusBadRequest, code)
				resp := decode[map[string]any](t, body)
				require.Equal(t, "validation_failed", resp["error"])
				require.Contains(t, resp["fields"], "account_number")
				require.Contains(t, resp["fields"], "account_type")
			})
		})

		t.Run("create for unknown customer", func(t *testing.T) {
			withServer(t, func(url string) {
				code, body := call(t, http.MethodPost, url+"/api/v1/accounts", `{
					"account_number": "478758",
					"account_type": "SAVINGS",
					"initial_balance": "100",
					"customer_id": "`+uuid.NewString()+`"
				}`)

				require.Equalf(t, http.StatusUnprocessableEntity, code, "body: %s", body)
			})
		})

		t.Run("get by id and number", func(t *testing.T) {
			withServer(t, func(url string) {
				a := createAccount(t, url, "478758", "2000")

				code, body := call(t, http.MethodGet, url+"/api/v1/accounts/"+a.ID.String(), "")
				require.Equal(t, http.StatusOK, code)
				require.Equal(t, a.ID, decode[accountResponse](t, body).ID)

				code, body = call(t, http.MethodGet, url+"/api/v1/accounts/number/478758", "")
				require.Equal(t, http.StatusOK, code)
				require.Equal(t, a.ID, decode[accountResponse](t, body).ID)

				code, body = call(t, http.MethodGet, url+"/api/v1/accounts/customer/"+customerID.String(), "")
				require.Equal(t, http.StatusOK, code)
				require.Len(t, decode[[]accountResponse](t, body), 1)
			})
		})

		t.Run("get missing or malformed id", func(t *testing.T) {
			withServer(t, func(url string) {
				code, _ := call(t, http.MethodGet, url+"/api/v1/accounts/"+uuid.NewString(), "")
				require.Equal(t, http.StatusNotFound, code)

				code, _ = call(t, http.MethodGet, url+"/api/v1/accounts/not-a-uuid", "")
				require.Equal(t, http.StatusBadRequest, code)
			})
		})

		t.Run("update status", func(t *testing.T) {
			withServer(t, func(url string) {
				a := createAccount(t, url, "478758", "2000")

				code, body := call(t, http.MethodPut, url+"/api/v1/accounts/"+a.ID.String(), `{"status": "INACTIVE"}`)

				require.Equalf(t, http.StatusOK, code, "body: %s", body)
				updated := decode[accountResponse](t, body)
				require.EqualValues(t, "INACTIVE", updated.Status)
				require.EqualValues(t, "SAVINGS", updated.Type, "type should stay untouched")
			})
		})

		t.Run("update immutable field rejected", func(t *testing.T) {
			withServer(t, func(url string) {
				a := createAccount(t, url, "478758", "2000")

				code, _ := call(t, http.MethodPut, url+"/api/v1/accounts/"+a.ID.String(), `{"account_number": "999999"}`)

				require.Equal(t, http.StatusBadRequest, code)
			})
		})

		t.Run("deactivate", func(t *testing.T) {
			withServer(t, func(url string) {
				a := createAccount(t, url, "478758", "2000")

				code, _ := call(t, http.MethodDelete, url+"/api/v1/accounts/"+a.ID.String(), "")
				require.Equal(t, http.StatusNoContent, code)

				_, body := call(t, http.MethodGet, url+"/api/v1/accounts/"+a.ID.String(), "")
				require.EqualValues(t, "INACTIVE", decode[accountResponse](t, body).Status)
			})
		})
	})

	t.Run("movements", func(t *testing.T) {
		t.Run("debit then credit", func(t *testing.T) {
			withServer(t, func(url string) {
				a := createAccount(t, url, "478758", "2000")

				code, body := createMovement(t, url, a.ID, "debit", "575")
				require.Equalf(t, http.StatusCreated, code, "body: %s", body)
				m := decode[movementResponse](t, body)
				require.EqualValues(t, "DEBIT", m.Type)
				require.Equal(t, "575.00", m.Amount)
				require.Equal(t, "1425.00", m.Balance)

				code, body = createMovement(t, url, a.ID, "CREDIT", "600")
				require.Equalf(t, http.StatusCreated, code, "body: %s", body)
				require.Equal(t, "2025.00", decode[movementResponse](t, body).Balance)

				_, body = call(t, http.MethodGet, url+"/api/v1/accounts/"+a.ID.String(), "")
				require.Equal(t, "2025.00", decode[accountResponse](t, body).CurrentBalance)

				code, body = call(t, http.MethodGet, url+"/api/v1/movements/account/"+a.ID.String(), "")
				require.Equal(t, http.StatusOK, code)
				require.Len(t, decode[[]movementResponse](t, body), 2)
			})
		})

		t.Run("insufficient balance", func(t *testing.T) {
			withServer(t, func(url string) {
				a := createAccount(t, url, "478758", "100")

				code, body := createMovement(t, url, a.ID, "DEBIT", "100.01")

				require.Equal(t, http.StatusUnprocessableEntity, code)
				require.Equal(t, "Insufficient balance", decode[map[string]any](t, body)["message"])
			})
		})

		t.Run("invalid type or amount", func(t *testing.T) {
			withServer(t, func(url string) {
				a := createAccount(t, url, "478758", "100")

				code, _ := createMovement(t, url, a.ID, "TRANSFER", "10")
				require.Equal(t, http.StatusUnprocessableEntity, code)

				code, _ = createMovement(t, url, a.ID, "CREDIT", "-10")
				require.Equal(t, http.StatusUnprocessableEntity, code)
			})
		})

		t.Run("unknown account", func(t *testing.T) {
			withServer(t, func(url string) {
				code, _ := createMovement(t, url, uuid.New(), "CREDIT", "10")

				require.Equal(t, http.StatusNotFound, code)
			})
		})

		t.Run("update and delete", func(t *testing.T) {
			withServer(t, func(url string) {
				a := createAccount(t, url, "478758", "2000")
				_, body := createMovement(t, url, a.ID, "DEBIT", "575")
				m := decode[movementResponse](t, body)

				code, body := call(t, http.MethodPut, url+"/api/v1/movements/"+m.ID.String(), `{"movement_type": "CREDIT", "amount": "100"}`)
				require.Equalf(t, http.StatusOK, code, "body: %s", body)
				require.Equal(t, "2100.00", decode[movementResponse](t, body).Balance)

				code, _ = call(t, http.MethodDelete, url+"/api/v1/movements/"+m.ID.String(), "")
				require.Equal(t, http.StatusNoContent, code)

				_, body = call(t, http.MethodGet, url+"/api/v1/accounts/"+a.ID.String(), "")
				require.Equal(t, "2000.00", decode[accountResponse](t, body).CurrentBalance)

				code, _ = call(t, http.MethodGet, url+"/api/v1/movements/"+m.ID.String(), "")
				require.Equal(t, http.StatusNotFound, code)
			})
		})
	})

	t.Run("reports", func(t *testing.T) {
		t.Run("statement ok", func(t *testing.T) {
			withServer(t, func(url string) {
				a := createAccount(t, url, "478758", "2000")
				code, _ := createMovement(t, url, a.ID, "DEBIT", "575")
				require.Equal(t, http.StatusCreated, code)

				code, body := call(t, http.MethodGet, url+"/api/v1/reports/"+customerID.String()+"?startDate=2000-01-01&endDate=2999-12-31", "")

				require.Equalf(t, http.StatusOK, code, "body: %s", body)
				statements := decode[[]statementResponse](t, body)
				require.Len(t, statements, 1)
				require.Equal(t, "Jose Lema", statements[0].CustomerName)
				require.Len(t, statements[0].Movements, 1)
				require.Equal(t, "1425.00", statements[0].Movements[0].Balance)
			})
		})

		t.Run("bad period", func(t *testing.T) {
			withServer(t, func(url string) {
				base := url + "/api/v1/reports/" + customerID.String()

				code, _ := call(t, http.MethodGet, base+"?startDate=2024-02-01&endDate=2024-01-01", "")
				require.Equal(t, http.StatusBadRequest, code)

				code, _ = call(t, http.MethodGet, base+"?startDate=2024-02-01", "")
				require.Equal(t, http.StatusBadRequest, code)

				code, _ = call(t, http.MethodGet, base+"?startDate=yesterday&endDate=2024-01-01", "")
				require.Equal(t, http.StatusBadRequest, code)
			})
		})
	})

	t.Run("customer deleted event deactivates accounts", func(t *testing.T) {
		withServer(t, func(url string) {
			a := createAccount(t, url, "478758", "2000")

			code, body := call(t, http.MethodPost, url+"/api/v1/events/customers", `{
				"event_type": "CUSTOMER_DELETED",
				"customer_id": "`+customerID.String()+`"
			}`)
			require.Equalf(t, http.StatusAccepted, code, "body: %s", body)

			_, body = call(t, http.MethodGet, url+"/api/v1/accounts/"+a.ID.String(), "")
			require.EqualValues(t, "INACTIVE", decode[accountResponse](t, body).Status)
		})
	})

	t.Run("health", func(t *testing.T) {
		withServer(t, func(url string) {
			code, body := call(t, http.MethodGet, url+"/health", "")

			require.Equal(t, http.StatusOK, code)
			require.JSONEq(t, `{"status": "ok"}`, body)
		})
	})
}

func Test_parseDate(t *testing.T) {
	t.Parallel()

	start, err := parseDate("2024-01-15", false)
	require.NoError(t, err)
	require.Equal(t, testutil.MustParseTime(t, "2024-01-15T00:00:00Z"), start)

	end, err := parseDate("2024-01-15", true)
	require.NoError(t, err)
	require.True(t, end.After(testutil.MustParseTime(t, "2024-01-15T23:59:59Z")))
	require.True(t, end.Before(testutil.MustParseTime(t, "2024-01-16T00:00:00Z")))

	exact, err := parseDate("2024-01-15T10:00:00+03:00", true)
	require.NoError(t, err)
	require.Equal(t, testutil.MustParseTime(t, "2024-01-15T07:00:00Z").Unix(), exact.Unix())

	_, err = parseDate("15.01.2024", false)
	require.Error(t, err)
}
