package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain"
)

func pageQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
}

// dateQuery acepta AAAA-MM-DD o RFC 3339. "to" con fecha sola cubre el día completo.
func dateQuery(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dto.DateLayout, raw, time.Local)
	if err != nil {
		return nil, domain.Invalid(key, "fecha inválida, use AAAA-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = dateQuery(c, "from", false); err != nil {
		return nil, nil, err
	}
	if to, err = dateQuery(c, "to", true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func decimalQuery(c *fiber.Ctx, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.Invalid(key, "número inválido")
	}
	return &v, nil
}

func boolQuery(c *fiber.Ctx, key string) *bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v := c.QueryBool(key)
	return &v
}

// listQuery parte "a,b,c" en valores no vacíos.
func listQuery(c *fiber.Ctx, key string) []string {
	var out []string
	for _, v := range strings.Split(c.Query(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func sendPDF(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}
