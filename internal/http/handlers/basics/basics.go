// Package basics holds the two smoke-test endpoints, /hello and /add.
// Neither touches the database; they are handy for checking that the
// server, CORS and routing work before debugging anything else.
package basics

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/harsha/subjects-api/internal/types"
	"github.com/harsha/subjects-api/internal/utils/response"
)

// Greeting is the body of GET /hello.
const Greeting = "Hi Harsha!"

// Hello handles GET /hello with a plain-text greeting.
func Hello() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, Greeting)
	}
}

// Add handles GET /add/{operands}, where operands is "var1,var2".
//
// Success response (200 OK):
//
//	{ "operation": "addition", "operand1": "3", "operand2": "4", "result": 7, "message": "Have a great day" }
//
// Anything that is not two comma-separated integers, or whose sum does
// not fit in an int64, is a 400.
func Add() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.PathValue("operands")

		var1, var2, ok := strings.Cut(raw, ",")
		if !ok {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Message("expected two operands separated by a comma"))
			return
		}

		a, errA := strconv.ParseInt(var1, 10, 64)
		b, errB := strconv.ParseInt(var2, 10, 64)
		if errA != nil || errB != nil {
			slog.Debug("rejecting non-integer operands",
				slog.String("operand1", var1),
				slog.String("operand2", var2))
			response.WriteJSON(w, http.StatusBadRequest,
				response.Message(fmt.Sprintf("operands must be integers, got %q and %q", var1, var2)))
			return
		}

		sum := a + b
		if (b > 0 && sum < a) || (b < 0 && sum > a) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Message(fmt.Sprintf("sum of %s and %s overflows a 64-bit integer", var1, var2)))
			return
		}

		response.WriteJSON(w, http.StatusOK, types.Addition{
			Operation: "addition",
			Operand1:  var1,
			Operand2:  var2,
			Result:    sum,
			Message:   "Have a great day",
		})
	}
}
