package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fintrack/api/scope"
	"fintrack/api/store"
)

type createSalaryRequest struct {
	UserID string  `json:"userId"`
	Month  int     `json:"month" binding:"required,min=1,max=12"`
	Year   int     `json:"year" binding:"required,gte=1970"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CreateSalary records a month's salary for the caller, or for another
// user when an admin names one.
func (a *API) CreateSalary(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req createSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	owner, err := scope.CreationOwner(cl, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	period, err := a.Engine.CreatePeriod(c.Request.Context(), owner, req.Month, req.Year, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, period)
}

// ListSalaries returns the caller's periods; admins see everyone's and
// may filter by userId.
func (a *API) ListSalaries(c *gin.Context) {
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

	filter := store.PeriodFilter{
		UserID: scope.Owner(cl, c.Query("userId")),
		Month:  month,
		Year:   year,
	}
	periods, err := a.Store.ListPeriods(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, periods)
}

// GetSalaryByMonthYear looks up one period by its calendar position.
func (a *API) GetSalaryByMonthYear(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	month, merr := strconv.Atoi(c.Param("month"))
	year, yerr := strconv.Atoi(c.Param("year"))
	if merr != nil || yerr != nil || month < 1 || month > 12 || year < 1970 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid month/year"})
		return
	}

	filter := store.PeriodFilter{
		UserID: scope.Owner(cl, c.Query("userId")),
		Month:  month,
		Year:   year,
	}
	period, err := a.Store.FindPeriod(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if period == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Salary not found"})
		return
	}
	respondData(c, http.StatusOK, period)
}
