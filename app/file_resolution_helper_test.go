package app

import (
	"errors"
	"testing"

	"github.com/ludo-technologies/libfinder/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFileReader is a mock implementation of domain.FileReader
type MockFileReader struct {
	mock.Mock
}

func (m *MockFileReader) FileExists(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileReader) ValidatePaths(paths []string) error {
	args := m.Called(paths)
	return args.Error(0)
}

func (m *MockFileReader) IsValidSourceFile(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFileReader) CollectSourceFiles(paths []string, recursive bool, includePatterns []string, excludePatterns []string) ([]string, error) {
	args := m.Called(paths, recursive, includePatterns, excludePatterns)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFileReader) CollectCandidateFiles(paths []string, recursive bool, excludePatterns []string) ([]string, error) {
	args := m.Called(paths, recursive, excludePatterns)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFileReader) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func TestResolveFilePaths_AllPathsAreFiles(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"a.c", "b.cpp"}
	mockReader.On("ValidatePaths", paths).Return(nil)
	for _, path := range paths {
		mockReader.On("IsValidSourceFile", path).Return(true)
		mockReader.On("FileExists", path).Return(true, nil)
	}

	result, err := ResolveFilePaths(mockReader, paths, true, nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, paths, result, "Should return paths directly when all are files")
	mockReader.AssertExpectations(t)
	mockReader.AssertNotCalled(t, "CollectSourceFiles")
}

func TestResolveFilePaths_DirectoryCollects(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"src"}
	collected := []string{"src/a.c", "src/b.c"}
	mockReader.On("ValidatePaths", paths).Return(nil)

	mockReader.On("IsValidSourceFile", "src").Return(false)
	mockReader.On("CollectSourceFiles", paths, true, []string{"*.c"}, []string{"test/**"}).Return(collected, nil)

	result, err := ResolveFilePaths(mockReader, paths, true, []string{"*.c"}, []string{"test/**"})

	assert.NoError(t, err)
	assert.Equal(t, collected, result)
	mockReader.AssertExpectations(t)
	mockReader.AssertNotCalled(t, "FileExists", "src")
}

func TestResolveFilePaths_MissingPathFailsBeforeCollecting(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"src", "gone.c"}
	mockReader.On("ValidatePaths", paths).Return(domain.NewFileNotFoundError("gone.c", errors.New("stat failed")))

	_, err := ResolveFilePaths(mockReader, paths, false, nil, nil)

	assert.True(t, domain.HasErrorCode(err, domain.ErrCodeFileNotFound))
	mockReader.AssertExpectations(t)
	mockReader.AssertNotCalled(t, "CollectSourceFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveCandidatePaths(t *testing.T) {
	t.Run("explicit files", func(t *testing.T) {
		mockReader := new(MockFileReader)
		paths := []string{"dump.json", "export.txt"}
		mockReader.On("ValidatePaths", paths).Return(nil)
		for _, path := range paths {
			mockReader.On("FileExists", path).Return(true, nil)
		}

		result, err := ResolveCandidatePaths(mockReader, paths, true, nil)

		assert.NoError(t, err)
		assert.Equal(t, paths, result)
		mockReader.AssertNotCalled(t, "CollectCandidateFiles")
	})

	t.Run("directory", func(t *testing.T) {
		mockReader := new(MockFileReader)
		paths := []string{"exports"}
		mockReader.On("ValidatePaths", paths).Return(nil)
		mockReader.On("FileExists", "exports").Return(false, nil)
		mockReader.On("CollectCandidateFiles", paths, true, []string{"old/**"}).Return([]string{"exports/a.c"}, nil)

		result, err := ResolveCandidatePaths(mockReader, paths, true, []string{"old/**"})

		assert.NoError(t, err)
		assert.Equal(t, []string{"exports/a.c"}, result)
		mockReader.AssertExpectations(t)
	})

	t.Run("missing path", func(t *testing.T) {
		mockReader := new(MockFileReader)
		paths := []string{"nope.json"}
		mockReader.On("ValidatePaths", paths).Return(domain.NewFileNotFoundError("nope.json", nil))

		_, err := ResolveCandidatePaths(mockReader, paths, true, nil)

		assert.True(t, domain.HasErrorCode(err, domain.ErrCodeFileNotFound))
		mockReader.AssertNotCalled(t, "CollectCandidateFiles", mock.Anything, mock.Anything, mock.Anything)
	})
}
