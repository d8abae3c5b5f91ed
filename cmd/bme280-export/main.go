// bme280-export polls a BME280 on an I2C bus and serves the readings as
// Prometheus metrics.
package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/b3nn0/bme280"
	"github.com/b3nn0/bme280/sensors"
)

// CLI args
var (
	listenAddr   = flag.String("listen-address", ":9672", "address to listen on for HTTP requests")
	i2cBusNo     = flag.Int("i2c-bus", 1, "I2C bus number the sensor is wired to")
	readInterval = flag.Duration("read-int", 30*time.Second, "time interval between sensor reads")
)

// metrics to expose to Prometheus
var (
	gaugeTemperature = newGauge("env_temperature", "Air temperature (units: degrees Celsius)")
	gaugePressure    = newGauge("env_pressure", "Barometric pressure (units: hPa)")
	gaugeHumidity    = newGauge("env_humidity", "Relative humidity (units: %)")
)

func newGauge(name string, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
}

func init() {
	prometheus.MustRegister(gaugeTemperature)
	prometheus.MustRegister(gaugePressure)
	prometheus.MustRegister(gaugeHumidity)

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	flag.Parse()

	bus := embd.NewI2CBus(byte(*i2cBusNo))
	defer embd.CloseI2C()

	dev, err := bme280.NewI2C(&bus)
	if err != nil {
		log.Fatalf("failed to initialize BME280 on bus %d: %s", *i2cBusNo, err)
	}
	// One-shot conversions on demand; the sensor sleeps between polls.
	if err := dev.SetMode(bme280.Forced); err != nil {
		log.Fatalf("failed to set forced mode: %s", err)
	}

	all := []sensors.Sensor{
		sensors.NewBME280Temperature(dev, 1),
		sensors.NewBME280Pressure(dev, 2),
		sensors.NewBME280Humidity(dev, 3),
	}
	for _, s := range all {
		d := s.Describe()
		log.Infof("serving %s %s (range %g..%g, resolution %g)", d.Name, d.Quantity, d.Min, d.Max, d.Resolution)
	}

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Panic(http.ListenAndServe(*listenAddr, nil))
	}()

	for {
		poll(all)
		time.Sleep(*readInterval)
	}
}

func poll(all []sensors.Sensor) {
	for _, s := range all {
		ev, err := s.Event()
		if err != nil {
			log.Errorf("failed to read %s: %s", s.Describe().Quantity, err)
			continue
		}
		switch ev.Quantity {
		case sensors.Temperature:
			gaugeTemperature.Set(ev.Value)
		case sensors.Pressure:
			gaugePressure.Set(ev.Value)
		case sensors.Humidity:
			gaugeHumidity.Set(ev.Value)
		}
	}
}
