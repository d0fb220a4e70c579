package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/api/ledger"
	"fintrack/api/scope"
	"fintrack/api/store"
)

type createExpenseRequest struct {
	UserID    string  `json:"userId"`
	Title     string  `json:"title" binding:"required,min=1"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Category  string  `json:"category" binding:"required,min=1"`
	Date      string  `json:"date" binding:"required"`
	Note      string  `json:"note"`
	SalaryRef string  `json:"salaryRef"`
}

// CreateExpense records an expense against the caller's salary period:
// the one referenced explicitly, or the one covering the expense date.
func (a *API) CreateExpense(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondFieldErrors(c, fieldError{Field: "date", Message: "must be an RFC 3339 timestamp or YYYY-MM-DD"})
		return
	}

	owner, err := scope.CreationOwner(cl, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	ref := store.ByDate(date)
	if req.SalaryRef != "" {
		ref = store.ByReference(req.SalaryRef)
	}

	expense, err := a.Engine.RecordExpense(c.Request.Context(), owner, ref, ledger.ExpenseInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		Date:     date,
		Note:     req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, expense)
}

// ListExpenses returns expenses scoped to the caller, optionally
// filtered by month and year. Month without year spans all years.
func (a *API) ListExpenses(c *gin.Context) {
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

	filter := store.ExpenseFilter{
		UserID: scope.Owner(cl, c.Query("userId")),
		Month:  month,
		Year:   year,
	}
	expenses, err := a.Store.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, expenses)
}

// GetExpenseByID returns one expense if the caller may see it.
func (a *API) GetExpenseByID(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	expense, err := a.Store.FindExpenseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if expense == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Expense not found"})
		return
	}
	if !cl.IsAdmin() && expense.UserID != cl.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}
	respondData(c, http.StatusOK, expense)
}

// DeleteExpense removes an expense and returns its amount to the linked
// salary period.
func (a *API) DeleteExpense(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	if err := a.Engine.DeleteExpense(c.Request.Context(), cl, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Expense deleted and amount returned to salary")
}

// AggregateMonthly reports one month's total and per-category expense
// breakdown.
func (a *API) AggregateMonthly(c *gin.Context) {
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
	if month == 0 || year == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "month and year are required"})
		return
	}

	summary, err := a.Reporter.AggregateMonthly(c.Request.Context(), scope.Owner(cl, c.Query("userId")), month, year)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, summary)
}
