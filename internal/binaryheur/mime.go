package binaryheur

import (
	"net/http"
	"sync"
)

// constructMu serializes classifier construction. Real MIME-sniffing
// libraries (libmagic bindings, file(1) wrappers) commonly mutate
// process-global state — a signature database, a loaded shared object —
// during initialization and are not safe to construct concurrently. This
// repo's default classifier wraps the standard library's
// http.DetectContentType, which needs no such protection, but the lock is
// kept here so a future classifier backend that does have that constraint
// slots in without touching the coordinator or scanner.
var constructMu sync.Mutex

// httpClassifier implements MIMEClassifier using net/http.DetectContentType.
// No third-party MIME-sniffing library appears anywhere in the grounding
// corpus, so this is the one component in the repo that reaches for the
// standard library over an ecosystem dependency; see DESIGN.md.
type httpClassifier struct{}

// NewMIMEClassifier constructs a worker-scoped MIME classifier handle.
// Construction is serialized process-wide via constructMu; the returned
// handle is then safe for exclusive use by a single worker with no further
// locking, and must be released with Close when that worker exits.
func NewMIMEClassifier() MIMEClassifier {
	constructMu.Lock()
	defer constructMu.Unlock()
	return &httpClassifier{}
}

func (c *httpClassifier) Classify(prefix []byte) string {
	return http.DetectContentType(prefix)
}

func (c *httpClassifier) Close() {}
