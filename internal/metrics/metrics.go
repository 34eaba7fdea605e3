package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/sigreer/smartattr/internal/smart"
)

var (
	attrLabels = []string{"disk", "id", "name", "type", "updated"}

	valueDesc = prometheus.NewDesc(
		"smart_attribute_value",
		"Normalized current value of the SMART attribute",
		attrLabels, nil,
	)
	worstDesc = prometheus.NewDesc(
		"smart_attribute_worst",
		"Lowest normalized value recorded for the SMART attribute",
		attrLabels, nil,
	)
	thresholdDesc = prometheus.NewDesc(
		"smart_attribute_threshold",
		"Failure threshold of the SMART attribute, 0 when none",
		attrLabels, nil,
	)
	rawDesc = prometheus.NewDesc(
		"smart_attribute_raw_value",
		"Vendor specific raw counter of the SMART attribute",
		attrLabels, nil,
	)
	healthDesc = prometheus.NewDesc(
		"smart_attribute_health",
		"1 for the current when-failed state of the SMART attribute",
		append(attrLabels, "state"), nil,
	)
	readSuccessDesc = prometheus.NewDesc(
		"smart_read_success",
		"Whether the last SMART read cycle succeeded",
		[]string{"disk"}, nil,
	)
)

var healthStates = []smart.HealthState{smart.Pass, smart.NoThreshold, smart.FailedInPast, smart.FailingNow}

// ReadFunc performs or returns a cached read cycle for one device
type ReadFunc func() (*smart.Collection, error)

// Exporter is a prometheus.Collector that reads a device on each scrape
type Exporter struct {
	disk  string
	names smart.Names
	read  ReadFunc
}

// NewExporter returns an exporter for disk
func NewExporter(disk string, names smart.Names, read ReadFunc) *Exporter {
	return &Exporter{disk: disk, names: names, read: read}
}

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- valueDesc
	ch <- worstDesc
	ch <- thresholdDesc
	ch <- rawDesc
	ch <- healthDesc
	ch <- readSuccessDesc
}

func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	coll, err := e.read()
	if err != nil {
		log.Error().Err(err).Str("device", e.disk).Msg("smart read failed")
		ch <- prometheus.MustNewConstMetric(readSuccessDesc, prometheus.GaugeValue, 0, e.disk)
		return
	}
	ch <- prometheus.MustNewConstMetric(readSuccessDesc, prometheus.GaugeValue, 1, e.disk)

	// Repeated ids would produce duplicate series; the first slot wins.
	seen := make(map[uint8]bool)
	for _, a := range coll.All() {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		labels := []string{
			e.disk,
			strconv.Itoa(int(a.ID)),
			e.names.Name(a.ID),
			a.Category.Token(),
			a.UpdatePolicy.Token(),
		}
		ch <- prometheus.MustNewConstMetric(valueDesc, prometheus.GaugeValue, float64(a.Current), labels...)
		ch <- prometheus.MustNewConstMetric(worstDesc, prometheus.GaugeValue, float64(a.Worst), labels...)
		ch <- prometheus.MustNewConstMetric(thresholdDesc, prometheus.GaugeValue, float64(a.Threshold), labels...)
		ch <- prometheus.MustNewConstMetric(rawDesc, prometheus.GaugeValue, float64(a.RawValue), labels...)

		for _, s := range healthStates {
			v := 0.0
			if a.Health == s {
				v = 1
			}
			ch <- prometheus.MustNewConstMetric(healthDesc, prometheus.GaugeValue, v, append(labels, s.Token())...)
		}
	}
}
