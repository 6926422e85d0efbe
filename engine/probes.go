package engine

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// ServeHealthProbe reports healthy only when the database can start a transaction.
func ServeHealthProbe(db *sql.DB) Handler {
	return func(r *http.Request, _ httprouter.Params) Response {
		txn, err := db.BeginTx(r.Context(), nil)
		if err != nil {
			return Error(err)
		}
		if err := txn.Rollback(); err != nil {
			return Error(err)
		}
		return Empty()
	}
}

func CheckHealthProbe(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}
