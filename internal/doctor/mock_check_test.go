package doctor

import "github.com/stretchr/testify/mock"

// MockCheck is a testify mock of Check.
type MockCheck struct {
	mock.Mock
}

// MockCheck_Expecter builds typed expectations.
type MockCheck_Expecter struct {
	mock *mock.Mock
}

func (_m *MockCheck) EXPECT() *MockCheck_Expecter {
	return &MockCheck_Expecter{mock: &_m.Mock}
}

func (_m *MockCheck) Name() string {
	return _m.Called().String(0)
}

func (_m *MockCheck) Category() Category {
	ret := _m.Called()
	c, _ := ret.Get(0).(Category)
	return c
}

func (_m *MockCheck) Run() *CheckResult {
	ret := _m.Called()
	r, _ := ret.Get(0).(*CheckResult)
	return r
}

func (_e *MockCheck_Expecter) Name() *mock.Call     { return _e.mock.On("Name") }
func (_e *MockCheck_Expecter) Category() *mock.Call { return _e.mock.On("Category") }
func (_e *MockCheck_Expecter) Run() *mock.Call      { return _e.mock.On("Run") }

// NewMockCheck creates a MockCheck whose expectations are asserted on cleanup.
func NewMockCheck(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCheck {
	m := &MockCheck{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
