package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/timezone"
)

// --------------------------------------------------
// Path and query parsing
// --------------------------------------------------

func uintParam(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, httperr.Validation("invalid_"+name, "Invalid "+name)
	}
	return uint(n), nil
}

// uintQuery returns 0 when the parameter is absent.
func uintQuery(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, httperr.Validation("invalid_"+name, "Invalid "+name)
	}
	return uint(n), nil
}

func intQuery(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return n
}

// dayBoundsQuery turns optional from/to dates into [from 00:00, day after to 00:00)
// in loc.
func dayBoundsQuery(c *gin.Context, loc *time.Location) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw := c.Query("from"); raw != "" {
		d, err := timezone.ParseDate(raw, loc)
		if err != nil {
			return nil, nil, httperr.Validation("invalid_from", "from must be YYYY-MM-DD")
		}
		from = &d
	}

	if raw := c.Query("to"); raw != "" {
		d, err := timezone.ParseDate(raw, loc)
		if err != nil {
			return nil, nil, httperr.Validation("invalid_to", "to must be YYYY-MM-DD")
		}
		next := d.AddDate(0, 0, 1)
		to = &next
	}

	return from, to, nil
}
