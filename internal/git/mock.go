package git

// Compile-time check that MockRepository implements Repository.
var _ Repository = (*MockRepository)(nil)

// MockRepository is a configurable mock implementation of Repository for testing.
// Each method is backed by a function field. If the function field is nil,
// the method returns sensible zero values.
type MockRepository struct {
	PathFunc             func() string
	WorkingDirectoryFunc func() string
	StatusFunc           func() ([]StatusEntry, error)
	IsHeadDetachedFunc   func() bool
	CurrentBranchFunc    func() (string, error)
	UpstreamFunc         func(string) (Upstream, bool, error)
	RefExistsFunc        func(string) (bool, error)
}

func (m *MockRepository) Path() string {
	if m.PathFunc != nil {
		return m.PathFunc()
	}
	return ""
}

func (m *MockRepository) WorkingDirectory() string {
	if m.WorkingDirectoryFunc != nil {
		return m.WorkingDirectoryFunc()
	}
	return ""
}

func (m *MockRepository) Status() ([]StatusEntry, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc()
	}
	return nil, nil
}

func (m *MockRepository) IsHeadDetached() bool {
	if m.IsHeadDetachedFunc != nil {
		return m.IsHeadDetachedFunc()
	}
	return false
}

func (m *MockRepository) CurrentBranch() (string, error) {
	if m.CurrentBranchFunc != nil {
		return m.CurrentBranchFunc()
	}
	return "main", nil
}

func (m *MockRepository) Upstream(branch string) (Upstream, bool, error) {
	if m.UpstreamFunc != nil {
		return m.UpstreamFunc(branch)
	}
	return Upstream{Remote: "origin", Branch: branch}, true, nil
}

func (m *MockRepository) RefExists(name string) (bool, error) {
	if m.RefExistsFunc != nil {
		return m.RefExistsFunc(name)
	}
	return false, nil
}
