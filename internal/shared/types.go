package shared

// Task types handled by cmd/worker.
const (
	TypeMediaDelete       = "media:delete"
	TypeMediaSweepOrphans = "media:sweep_orphans"
)

// Queues
const (
	QueueMedia   = "media"
	QueueDefault = "default"
)

// Resource kinds used in routes, cache keys and log fields.
const (
	KindArticle  = "articles"
	KindFixture  = "fixtures"
	KindPlayer   = "players"
	KindCoach    = "coaches"
	KindTraining = "training-sessions"
	KindGallery  = "gallery"
)
