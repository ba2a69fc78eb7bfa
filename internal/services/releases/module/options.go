package module

import (
	"time"

	"cngalcal/internal/adapters/export"
	"cngalcal/internal/platform/config"
	ptime "cngalcal/internal/platform/time"
)

// Options holds configuration settings for the releases module
type Options struct {
	SourceURL     string
	SiteURL       string
	SourceTimeout time.Duration
	SourceRetries int

	OutputDir string
	Formats   []string
	RulesFile string
	Denylist  []int

	Location     *time.Location
	StrideMonths int
}

// FromConfig reads the pipeline keys under cfg
func FromConfig(cfg config.Conf) Options {
	return Options{
		SourceURL:     cfg.MayString("SOURCE_URL", "https://api.cngal.org"),
		SiteURL:       cfg.MayString("SITE_URL", "https://www.cngal.org/"),
		SourceTimeout: cfg.MayDuration("SOURCE_TIMEOUT", 30*time.Second),
		SourceRetries: cfg.MayInt("SOURCE_RETRIES", 3),
		OutputDir:     cfg.MayString("OUTPUT_DIR", "output"),
		Formats:       cfg.MayCSV("OUTPUT_FORMATS", nil),
		RulesFile:     cfg.MayString("RULES_FILE", ""),
		Denylist:      cfg.MayInts("DENYLIST", nil),
		Location:      cfg.MayLocation("TZ", ptime.DefaultZone),
		StrideMonths:  cfg.MayInt("RESOLVE_STRIDE_MONTHS", 2),
	}
}

func (o Options) formats() ([]export.Format, error) {
	out := make([]export.Format, 0, len(o.Formats))
	for _, s := range o.Formats {
		f, err := export.ParseFormat(s)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
