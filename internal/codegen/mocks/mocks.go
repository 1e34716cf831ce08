package mocks

import (
	"github.com/stretchr/testify/mock"
)

type CodeGeneratorMock struct {
	mock.Mock
}

func NewCodeGeneratorMock() *CodeGeneratorMock {
	return &CodeGeneratorMock{}
}

func (m *CodeGeneratorMock) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
