package config_test

import (
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/cagrikilic/cartographer-ros/config"
)

func TestParseNodeOptionsDefaults(t *testing.T) {
	opts, err := config.ParseNodeOptions(config.AttributeMap{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.MapFrame, test.ShouldEqual, "map")
	test.That(t, opts.TrackingFrame, test.ShouldEqual, "base_link")
	test.That(t, opts.Resolution, test.ShouldEqual, 0.05)
	test.That(t, opts.LookupTransformTimeout(), test.ShouldEqual, 100*time.Millisecond)
}

func TestParseNodeOptionsOverrides(t *testing.T) {
	opts, err := config.ParseNodeOptions(config.AttributeMap{
		"map_frame":                    "world",
		"tracking_frame":               "imu_link",
		"lookup_transform_timeout_sec": 0.5,
		"resolution":                   0.1,
		"backend_config": map[string]interface{}{
			"num_background_threads": 4,
		},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.MapFrame, test.ShouldEqual, "world")
	test.That(t, opts.TrackingFrame, test.ShouldEqual, "imu_link")
	test.That(t, opts.LookupTransformTimeout(), test.ShouldEqual, 500*time.Millisecond)
	test.That(t, opts.Resolution, test.ShouldEqual, 0.1)
	test.That(t, opts.BackendConfig["num_background_threads"], test.ShouldEqual, 4)
}

func TestParseNodeOptionsInvalid(t *testing.T) {
	_, err := config.ParseNodeOptions(config.AttributeMap{"map_frame": ""})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "map_frame")

	_, err = config.ParseNodeOptions(config.AttributeMap{"resolution": -1.0})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "resolution")

	_, err = config.ParseNodeOptions(config.AttributeMap{"lookup_transform_timeout_sec": 0.0})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "lookup_transform_timeout_sec")
}
