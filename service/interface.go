// Package service wires the audio core into a host program. Each service owns
// one long-lived resource (the output sink, the settings manager, the sound
// generator, the music engine) and the Hub brings them up and down in
// dependency order.
package service

// Service is one lifecycle-managed audio subsystem
//
// A host constructs services with their peer services, registers them on a
// Hub with Init args, then calls InitAll, StartAll and finally StopAll.
type Service interface {
	Name() string

	// Dependencies names services that must be initialized and started first
	Dependencies() []string

	// Init configures the service; args are service-specific and optional
	Init(args ...any) error

	// Start opens devices and launches goroutines; peers are already started
	Start() error

	// Stop releases everything Start and Init acquired; must be idempotent
	Stop() error
}

// ResourcePublisher receives the APIs services expose; the host switches on type
type ResourcePublisher func(resource any)

// ResourceContributor is implemented by services that expose APIs to the host
type ResourceContributor interface {
	Contribute(publish ResourcePublisher)
}

// Service names
const (
	NameSink     = "sink"
	NameSettings = "settings"
	NameSounds   = "sounds"
	NameMusic    = "music"
)
