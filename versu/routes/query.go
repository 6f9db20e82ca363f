package routes

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"versu/versu/sources/psql/models"
	"versu/versu/utils/types"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

func intParam(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q debe ser un número entero", key)
	}
	return n, nil
}

// timeParam accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func timeParam(q url.Values, key string) (*time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%q debe ser una fecha válida", key)
}

func parseConversationQuery(q url.Values) (types.ConversationQuery, error) {
	var (
		out types.ConversationQuery
		err error
	)
	if out.Page, err = intParam(q, "page", defaultPage); err != nil {
		return out, invalidQuery(err)
	}
	if out.Limit, err = intParam(q, "limit", defaultLimit); err != nil {
		return out, invalidQuery(err)
	}
	if out.MinRating, err = intParam(q, "minRating", 0); err != nil {
		return out, invalidQuery(err)
	}
	if out.StartDate, err = timeParam(q, "startDate"); err != nil {
		return out, invalidQuery(err)
	}
	if out.EndDate, err = timeParam(q, "endDate"); err != nil {
		return out, invalidQuery(err)
	}
	out.Channel = models.Channel(q.Get("channel"))
	out.Status = models.ConversationStatus(q.Get("status"))
	if err := types.Validate(out); err != nil {
		return out, invalidQuery(err)
	}
	return out, nil
}

func parsePromptQuery(q url.Values) (types.PromptQuery, error) {
	var (
		out types.PromptQuery
		err error
	)
	if out.Page, err = intParam(q, "page", defaultPage); err != nil {
		return out, invalidQuery(err)
	}
	if out.Limit, err = intParam(q, "limit", defaultLimit); err != nil {
		return out, invalidQuery(err)
	}
	if err := types.Validate(out); err != nil {
		return out, invalidQuery(err)
	}
	return out, nil
}
