package middleware

import (
	"reflect"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the instrumentation middleware.
type MetricsConfig struct {
	Skipper      Skipper
	Namespace    string
	Subsystem    string
	Buckets      []float64
	MetricsPath  string
	NotFoundPath string
}

const httpRequestsDuration = "request_duration_seconds"

var DefaultMetricsConfig = MetricsConfig{
	Skipper:   DefaultSkipper,
	Namespace: "",
	Subsystem: "",
	Buckets: []float64{
		0.001, // 1ms
		0.005,
		0.01, // 10ms
		0.05,
		0.1, // 100 ms
		0.5,
		1.0, // 1s
		5.0,
		10.0, // 10s
		30.0,
	},
	MetricsPath:  "/metrics",
	NotFoundPath: "/not-found",
}

func isNotFoundHandler(handler echo.HandlerFunc) bool {
	return reflect.ValueOf(handler).Pointer() == reflect.ValueOf(echo.NotFoundHandler).Pointer()
}

// Metrics returns an echo middleware with default config for instrumentation.
func Metrics() echo.MiddlewareFunc {
	return MetricsWithConfig(DefaultMetricsConfig)
}

// MetricsWithConfig returns an echo middleware for instrumentation.
func MetricsWithConfig(config MetricsConfig) echo.MiddlewareFunc {
	httpMetrics, err := registerHTTPMetrics(config)
	if err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			httpMetrics = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			panic(err)
		}
	}

	var promHandler echo.HandlerFunc
	if config.MetricsPath != "" {
		promHandler = echo.WrapHandler(promhttp.Handler())
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := c.Path()

			if promHandler != nil && req.RequestURI == config.MetricsPath {
				return promHandler(c)
			}

			if config.Skipper(c) {
				return next(c)
			}

			// collapse 404s into one label to cap cardinality
			if isNotFoundHandler(c.Handler()) {
				path = config.NotFoundPath
			}

			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			httpMetrics.WithLabelValues(status, req.Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

func registerHTTPMetrics(config MetricsConfig) (*prometheus.HistogramVec, error) {
	httpMetrics := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      httpRequestsDuration,
		Help:      "Time spent processing a route",
		Buckets:   config.Buckets,
	}, []string{"code", "method", "path"})
	if err := prometheus.Register(httpMetrics); err != nil {
		return nil, err
	}
	return httpMetrics, nil
}
