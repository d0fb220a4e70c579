package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/api/scope"
)

const defaultHistoryMonths = 6

// Overview reports the caller's month at a glance: salary period,
// remaining balance, expense total, and top goals. Month and year
// default to the current month.
func (a *API) Overview(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	month, ferr := queryMonth(c)
	if ferr != nil {
		respondFieldErrors(c, *ferr)
		return
	}
	year, ferr := queryYear(c)
	if ferr != nil {
		respondFieldErrors(c, *ferr)
		return
	}

	now := time.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}

	overview, err := a.Reporter.Overview(c.Request.Context(), scope.Owner(cl, c.Query("userId")), month, year)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, overview)
}

// History returns the trailing months' salary totals and expense sums,
// newest first.
func (a *API) History(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	months := defaultHistoryMonths
	if raw := c.Query("months"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondFieldErrors(c, fieldError{Field: "months", Message: "must be a positive integer"})
			return
		}
		months = v
	}

	history, err := a.Reporter.History(c.Request.Context(), scope.Owner(cl, c.Query("userId")), months)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, history)
}
