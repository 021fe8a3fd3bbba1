package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/nedgladstone/cardball/internal/domain/aggregates"
)

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainagg.InvalidArgument("http.parse_"+name, "invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

func limitQuery(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domainagg.InvalidArgument("http.parse_limit", "invalid limit %q", raw)
	}
	return n, nil
}

func bindError(err error) error {
	return domainagg.Wrap(domainagg.CodeInvalidArgument, "http.bind", err)
}
