package dash

// UploadPhase is the lifecycle of the transient upload indicator.
type UploadPhase int

const (
	UploadIdle UploadPhase = iota
	UploadInProgress
	UploadSucceeded
	UploadFailed
)

// UploadStatus is the current upload indicator. A succeeded status is
// cleared after a fixed display window; a failed status persists until the
// next upload attempt.
type UploadStatus struct {
	Phase   UploadPhase
	Message string
}

// Notice is one dismissable failure notification. Notices queue instead of
// blocking so the core stays decoupled from any dialog modality.
type Notice struct {
	Text string
}

// BannerClass identifies the fetch class that owns the banner. A success
// clears only a banner set by its own class.
type BannerClass string

const (
	BannerSeason     BannerClass = "season"
	BannerHistorical BannerClass = "historical"
)

// Notifier keeps the two independent error surfaces plus the upload
// indicator. The banner is last-error-wins and persists until the next
// successful fetch of its class; notices queue until dismissed.
type Notifier struct {
	banner      string
	bannerClass BannerClass
	notices     []Notice
	upload      UploadStatus
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// SetBanner replaces the banner text, recording the class that set it.
func (n *Notifier) SetBanner(class BannerClass, msg string) {
	n.banner = msg
	n.bannerClass = class
}

// ClearBanner removes the banner if class is the one that set it. A success
// in one class leaves another class's failure showing.
func (n *Notifier) ClearBanner(class BannerClass) {
	if n.bannerClass != class {
		return
	}
	n.banner = ""
	n.bannerClass = ""
}

// Banner returns the banner text and whether one is showing.
func (n *Notifier) Banner() (string, bool) {
	return n.banner, n.banner != ""
}

// PushNotice appends a notice to the queue.
func (n *Notifier) PushNotice(text string) {
	n.notices = append(n.notices, Notice{Text: text})
}

// DismissNotice drops the oldest notice.
func (n *Notifier) DismissNotice() {
	if len(n.notices) > 0 {
		n.notices = n.notices[1:]
	}
}

// Notices returns the queued notices, oldest first.
func (n *Notifier) Notices() []Notice {
	return n.notices
}

// UploadStarted flips the indicator to in-progress.
func (n *Notifier) UploadStarted() {
	n.upload = UploadStatus{Phase: UploadInProgress}
}

// UploadSucceeded flips the indicator to succeeded.
func (n *Notifier) UploadSucceeded() {
	n.upload = UploadStatus{Phase: UploadSucceeded, Message: "Upload complete"}
}

// UploadFailed records a failed upload with its message. Failures are not
// auto-cleared.
func (n *Notifier) UploadFailed(msg string) {
	n.upload = UploadStatus{Phase: UploadFailed, Message: msg}
}

// ClearUploadStatus resets a succeeded indicator after its display window.
// Failed statuses stay up.
func (n *Notifier) ClearUploadStatus() {
	if n.upload.Phase == UploadSucceeded {
		n.upload = UploadStatus{}
	}
}

// Upload returns the current upload indicator.
func (n *Notifier) Upload() UploadStatus {
	return n.upload
}
