package domain

import "time"

// JobStatus enumerates the lifecycle states of a generation job.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// OutputFormat enumerates the deliverable formats a job can produce.
type OutputFormat string

const (
	FormatPDF   OutputFormat = "pdf"
	FormatCBZ   OutputFormat = "cbz"
	FormatWeb   OutputFormat = "web"
	FormatVideo OutputFormat = "video"
)

// KnownOutputFormats lists every format the service can produce.
var KnownOutputFormats = []OutputFormat{FormatPDF, FormatCBZ, FormatWeb, FormatVideo}

// Art styles and audiences the prompt templates understand. Requests that
// omit them fall back to the defaults.
const (
	DefaultArtStyle       = "cartoon"
	DefaultTargetAudience = "general"
)

var (
	KnownArtStyles       = []string{"cartoon", "manga", "realistic", "comic", "sketch", "watercolor"}
	KnownTargetAudiences = []string{"children", "teen", "general", "adult"}
)

// GenerationInput holds the original request parameters for one job.
// Either Text or Document must be set.
type GenerationInput struct {
	Text           string
	Document       []byte
	DocumentName   string
	Title          string
	ArtStyle       string
	TargetPages    int
	TargetAudience string
	OutputFormats  []OutputFormat
}

// WantsVideo reports whether the request asked for animated clips.
func (in GenerationInput) WantsVideo() bool {
	for _, f := range in.OutputFormats {
		if f == FormatVideo {
			return true
		}
	}
	return false
}

// Artifact references one produced deliverable in the artifact store.
type Artifact struct {
	Ref         string
	ContentType string
	Size        int64
}

// JobResult is populated once every requested format has been produced.
type JobResult struct {
	Title       string
	TotalPages  int
	TotalPanels int
	Artifacts   map[OutputFormat]Artifact
}

// JobError records which stage failed and how.
type JobError struct {
	Stage   string
	Kind    ErrorKind
	Message string
}

// Job tracks one generation request from submission to a terminal state.
// A job is mutated only by the orchestrator run that owns it; all other
// callers see registry snapshots.
type Job struct {
	ID           string
	Status       JobStatus
	Progress     float64
	CurrentStage string
	Message      string
	Input        GenerationInput
	Result       *JobResult
	Error        *JobError
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminal reports whether the job reached a final state.
func (j Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Clone returns a deep copy so registry snapshots cannot alias the stored entry.
func (j Job) Clone() Job {
	out := j
	out.Input.Document = append([]byte(nil), j.Input.Document...)
	out.Input.OutputFormats = append([]OutputFormat(nil), j.Input.OutputFormats...)
	if j.Result != nil {
		res := *j.Result
		res.Artifacts = make(map[OutputFormat]Artifact, len(j.Result.Artifacts))
		for k, v := range j.Result.Artifacts {
			res.Artifacts[k] = v
		}
		out.Result = &res
	}
	if j.Error != nil {
		e := *j.Error
		out.Error = &e
	}
	return out
}
