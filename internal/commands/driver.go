package commands

import (
	"context"
	"strings"

	"f1-telegram-bot/internal/colors"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const driverColor = colors.RGB(0x3498DB)

// DriverLookup answers /driver_lookup with a driver's profile.
func (h *Handler) DriverLookup(ctx context.Context, name string) ([]Reply, error) {
	log.Debugf("processing command driver_lookup with argument: %s", name)

	id := DriverID(name)
	if id == "" {
		return nil, errors.Wrap(ErrNotFound, "driver lookup: empty name")
	}

	resp, err := h.fetch(ctx, h.api.DriverURL(id), false)
	if err != nil {
		return nil, errors.Wrap(err, "driver lookup")
	}
	if resp.MRData.DriverTable == nil || len(resp.MRData.DriverTable.Drivers) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "driver lookup: no driver %q", id)
	}
	d := resp.MRData.DriverTable.Drivers[0]

	reply := Reply{
		Title: "🏎️ " + d.FullName(),
		URL:   d.URL,
		Color: driverColor,
	}
	reply.AddField("🌍 Nationality", d.Nationality, true)
	reply.AddField("🎂 Birth Date", d.DateOfBirth, true)
	if d.URL != "" {
		reply.Fields = append(reply.Fields, Field{Name: "📖 More Info", Value: "Wikipedia", URL: d.URL})
	}
	h.footer(&reply)
	return []Reply{reply}, nil
}

// DriverID turns free text into the API's driver id form, e.g.
// "Max Verstappen" into "max_verstappen".
func DriverID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
