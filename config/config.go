// Package config holds the bridge's immutable node options.
package config

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// AttributeMap is a generic attribute bag, typically decoded from JSON or
// YAML service configuration.
type AttributeMap map[string]interface{}

const (
	defaultMapFrame                  = "map"
	defaultTrackingFrame             = "base_link"
	defaultLookupTransformTimeoutSec = 0.1
	defaultResolution                = 0.05
)

// NodeOptions configures the bridge. It is supplied once at construction and
// never mutated afterwards.
type NodeOptions struct {
	// MapFrame is the frame id stamped onto published snapshots.
	MapFrame string `json:"map_frame"`
	// TrackingFrame is the frame sensor data is expressed in.
	TrackingFrame string `json:"tracking_frame"`
	// LookupTransformTimeoutSec bounds frame transform resolution.
	LookupTransformTimeoutSec float64 `json:"lookup_transform_timeout_sec"`
	// Resolution is the occupancy grid cell size in meters.
	Resolution float64 `json:"resolution"`
	// BackendConfig is passed through to the SLAM backend unparsed.
	BackendConfig AttributeMap `json:"backend_config"`
}

// DefaultNodeOptions returns options suitable for a single-lidar robot.
func DefaultNodeOptions() NodeOptions {
	return NodeOptions{
		MapFrame:                  defaultMapFrame,
		TrackingFrame:             defaultTrackingFrame,
		LookupTransformTimeoutSec: defaultLookupTransformTimeoutSec,
		Resolution:                defaultResolution,
	}
}

// ParseNodeOptions decodes options from an attribute map, applying defaults
// for absent fields.
func ParseNodeOptions(attributes AttributeMap) (NodeOptions, error) {
	opts := DefaultNodeOptions()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &opts})
	if err != nil {
		return NodeOptions{}, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return NodeOptions{}, errors.Wrap(err, "decoding node options")
	}
	if err := opts.Validate(); err != nil {
		return NodeOptions{}, err
	}
	return opts, nil
}

// Validate checks that required fields are present and sane.
func (o NodeOptions) Validate() error {
	if o.MapFrame == "" {
		return errors.New("map_frame must be set")
	}
	if o.TrackingFrame == "" {
		return errors.New("tracking_frame must be set")
	}
	if o.LookupTransformTimeoutSec <= 0 {
		return errors.Errorf("lookup_transform_timeout_sec must be positive, got %v", o.LookupTransformTimeoutSec)
	}
	if o.Resolution <= 0 {
		return errors.Errorf("resolution must be positive, got %v", o.Resolution)
	}
	return nil
}

// LookupTransformTimeout returns the transform timeout as a duration.
func (o NodeOptions) LookupTransformTimeout() time.Duration {
	return time.Duration(o.LookupTransformTimeoutSec * float64(time.Second))
}
