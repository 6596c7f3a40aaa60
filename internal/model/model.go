package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type ProjectStatus string

const (
	ProjectInit      ProjectStatus = "init"
	ProjectPlanning  ProjectStatus = "planning"
	ProjectWriting   ProjectStatus = "writing"
	ProjectReviewing ProjectStatus = "reviewing"
	ProjectCompleted ProjectStatus = "completed"
)

type ChapterStatus string

const (
	ChapterDraft     ChapterStatus = "draft"
	ChapterReviewing ChapterStatus = "reviewing"
	ChapterRevised   ChapterStatus = "revised"
	ChapterApproved  ChapterStatus = "approved"
)

// Time decodes studio timestamps. The backend emits datetime.isoformat()
// strings which may lack a zone offset; plain RFC 3339 parsing rejects those.
type Time struct {
	time.Time
}

const isoNoZone = "2006-01-02T15:04:05.999999999"

func (t *Time) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = v
		return nil
	}
	v, err := time.ParseInLocation(isoNoZone, s, time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	t.Time = v
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Project is the summary shape returned by the studio list endpoint.
// Counts are denormalized by the backend.
type Project struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Genre        string        `json:"genre"`
	Style        string        `json:"style"`
	TemplateID   *string       `json:"template_id,omitempty"`
	Status       ProjectStatus `json:"status"`
	TargetLength int           `json:"target_length"`
	ChapterCount int           `json:"chapter_count"`
	EntityCount  int           `json:"entity_count"`
	EventCount   int           `json:"event_count"`
	CreatedAt    *Time         `json:"created_at,omitempty"`
}

type ProjectDetail struct {
	Project
	TabooConstraints []string `json:"taboo_constraints,omitempty"`
	UpdatedAt        *Time    `json:"updated_at,omitempty"`
}

type Chapter struct {
	ID            string        `json:"id"`
	Number        int           `json:"chapter_number"`
	Title         string        `json:"title"`
	Goal          string        `json:"goal,omitempty"`
	Status        ChapterStatus `json:"status"`
	WordCount     int           `json:"word_count"`
	ConflictCount int           `json:"conflict_count"`
	UpdatedAt     *Time         `json:"updated_at,omitempty"`
}

// TemplateRecommendation is the preset a story template suggests for the
// create form.
type TemplateRecommendation struct {
	TargetLength    int `json:"target_length,omitempty"`
	ChapterCount    int `json:"chapter_count,omitempty"`
	WordsPerChapter int `json:"words_per_chapter,omitempty"`
}

type StoryTemplate struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Category        string                 `json:"category"`
	Description     string                 `json:"description,omitempty"`
	Recommended     TemplateRecommendation `json:"recommended"`
	GenreSuggestion string                 `json:"genre_suggestion,omitempty"`
	StyleSuggestion string                 `json:"style_suggestion,omitempty"`
	DefaultTaboos   []string               `json:"default_taboos,omitempty"`
}

type CreateProjectInput struct {
	Name             string   `json:"name"`
	Genre            string   `json:"genre"`
	Style            string   `json:"style"`
	TemplateID       *string  `json:"template_id,omitempty"`
	TargetLength     int      `json:"target_length"`
	TabooConstraints []string `json:"taboo_constraints"`
}

type ProjectCreated struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	TemplateID *string       `json:"template_id,omitempty"`
	Status     ProjectStatus `json:"status"`
	CreatedAt  *Time         `json:"created_at,omitempty"`
}

// DeleteOutcome reports one project deletion. Status is deleted, missing
// or failed; deleting an already-gone project is not an error.
type DeleteOutcome struct {
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
	Name      string `json:"name,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

func (d DeleteOutcome) Missing() bool { return d.Status == "missing" }

type BatchDeleteResult struct {
	RequestedCount int             `json:"requested_count"`
	DeletedCount   int             `json:"deleted_count"`
	MissingCount   int             `json:"missing_count"`
	FailedCount    int             `json:"failed_count"`
	Deleted        []DeleteOutcome `json:"deleted"`
	Missing        []DeleteOutcome `json:"missing"`
	Failed         []DeleteOutcome `json:"failed"`
}

// PurgedIDs returns the ids that no longer exist on the backend, whether
// this call removed them or they were already gone.
func (r *BatchDeleteResult) PurgedIDs() []string {
	ids := make([]string, 0, len(r.Deleted)+len(r.Missing))
	for _, d := range r.Deleted {
		ids = append(ids, d.ProjectID)
	}
	for _, d := range r.Missing {
		ids = append(ids, d.ProjectID)
	}
	return ids
}

// ChapterQuality identifies a chapter inside the metrics quality details.
type ChapterQuality struct {
	ProjectID      string        `json:"project_id"`
	ProjectName    string        `json:"project_name"`
	ChapterID      string        `json:"chapter_id"`
	ChapterNumber  int           `json:"chapter_number"`
	ChapterTitle   string        `json:"chapter_title"`
	ChapterStatus  ChapterStatus `json:"chapter_status"`
	P0Count        int           `json:"p0_count"`
	FirstPassOK    bool          `json:"first_pass_ok"`
	MemoryHitCount int           `json:"memory_hit_count"`
	HasUnresolved  bool          `json:"has_unresolved_p0"`
}

type QualityDetails struct {
	P0ConflictChapters      []ChapterQuality `json:"p0_conflict_chapters"`
	FirstPassFailedChapters []ChapterQuality `json:"first_pass_failed_chapters"`
	RecallMissedChapters    []ChapterQuality `json:"recall_missed_chapters"`
}

// Metrics aggregates generation quality for one project or the whole
// workspace. Averages are zero when SampleSize is zero.
type Metrics struct {
	ChapterGenerationTime  float64        `json:"chapter_generation_time"`
	SearchTime             float64        `json:"search_time"`
	ConflictsPerChapter    float64        `json:"conflicts_per_chapter"`
	P0Ratio                float64        `json:"p0_ratio"`
	FirstPassRate          float64        `json:"first_pass_rate"`
	ExemptionRate          float64        `json:"exemption_rate"`
	RecallHitRate          float64        `json:"recall_hit_rate"`
	SampleSize             int            `json:"sample_size"`
	ChaptersWithP0         int            `json:"chapters_with_p0"`
	ChaptersFirstPassOK    int            `json:"chapters_first_pass_ok"`
	ChaptersWithMemoryHits int            `json:"chapters_with_memory_hits"`
	QualityDetails         QualityDetails `json:"quality_details"`
}

type Health struct {
	Status    string `json:"status"`
	Projects  int    `json:"projects"`
	Chapters  int    `json:"chapters"`
	Timestamp *Time  `json:"timestamp,omitempty"`
}

type ActivityType string

const (
	ActivityCreate   ActivityType = "create"
	ActivityDelete   ActivityType = "delete"
	ActivityRefresh  ActivityType = "refresh"
	ActivitySave     ActivityType = "save"
	ActivityGenerate ActivityType = "generate"
)

type ActivityStatus string

const (
	ActivitySuccess ActivityStatus = "success"
	ActivityError   ActivityStatus = "error"
	ActivityPending ActivityStatus = "pending"
)

// ActivityRecord is one entry in the operation history. Retry is an
// in-memory affordance only; it never survives persistence and is nil
// on records loaded from disk.
type ActivityRecord struct {
	ID          string         `json:"id"`
	Type        ActivityType   `json:"type"`
	Description string         `json:"description"`
	Status      ActivityStatus `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Retry       func()         `json:"-"`
}

type RecentKind string

const (
	RecentProject RecentKind = "project"
	RecentChapter RecentKind = "chapter"
)

type RecentItem struct {
	Kind      RecentKind `json:"kind"`
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	ProjectID string     `json:"project_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

type Draft struct {
	Content string    `json:"content"`
	SavedAt time.Time `json:"saved_at"`
}
