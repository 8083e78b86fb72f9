package hkutil

// Guard is the scoped-acquisition / guaranteed-release helper called out in
// spec.md §4.N and §9 ("Scoped resource release"): acquire a resource,
// guarantee its release on every exit path, unless the caller explicitly
// cancels the release (e.g. because ownership was handed off).
//
// Go already has `defer`; Guard exists for the cases the teacher's own
// thread_pool.cpp/git.cpp pattern needs beyond a bare defer — releasing
// conditionally, and cancelling the release when a function succeeds and
// transfers ownership of the resource to its caller.
type Guard struct {
	release func()
	armed   bool
}

// NewGuard arms release to run when the Guard is Closed, unless Cancel was
// called first.
func NewGuard(release func()) *Guard {
	return &Guard{release: release, armed: true}
}

// Cancel disarms the guard: Close becomes a no-op. Used when a function is
// handing off ownership of the resource to its caller on a success path.
func (g *Guard) Cancel() {
	g.armed = false
}

// Close runs the release function if still armed. Safe to call multiple
// times; idempotent after the first run.
func (g *Guard) Close() {
	if g.armed {
		g.armed = false
		g.release()
	}
}
