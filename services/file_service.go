package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"pdfcast/models"
)

// FileService owns the id-keyed paths for uploaded sources, persisted
// indexes, and exported audio.
type FileService struct {
	uploadDir string
	audioDir  string
}

func NewFileService(uploadDir, audioDir string) (*FileService, error) {
	for _, dir := range []string{uploadDir, audioDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("could not create directory %s: %w", dir, err)
		}
	}
	return &FileService{uploadDir: uploadDir, audioDir: audioDir}, nil
}

// SaveUpload writes an uploaded source file and returns its path.
func (f *FileService) SaveUpload(projectID, filename string, content []byte) (string, error) {
	path := filepath.Join(f.uploadDir, fmt.Sprintf("%s_%s", projectID, filepath.Base(filename)))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to save uploaded file: %w", err)
	}
	return path, nil
}

// IndexPath returns the per-project index file path.
func (f *FileService) IndexPath(projectID string) string {
	return filepath.Join(f.uploadDir, projectID+".index")
}

// SegmentTempPath returns the temp path for one synthesized clip.
func (f *FileService) SegmentTempPath(projectID string, segment int) string {
	return filepath.Join(f.audioDir, fmt.Sprintf("%s_temp_%d.wav", projectID, segment))
}

// PodcastPath returns the export path for a project's merged podcast.
func (f *FileService) PodcastPath(projectID string) string {
	return filepath.Join(f.audioDir, projectID+"_podcast.mp3")
}

// AudioPath resolves an audio filename inside the audio directory. The
// base of the name is used, so a caller-supplied path cannot escape it.
func (f *FileService) AudioPath(filename string) string {
	return filepath.Join(f.audioDir, filepath.Base(filename))
}

// AudioExists reports whether an audio file is present.
func (f *FileService) AudioExists(filename string) bool {
	_, err := os.Stat(f.AudioPath(filename))
	return err == nil
}

// RemoveIfExists deletes a file. Deleting a missing file is not an error.
func (f *FileService) RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// CleanupProject removes every file a project owns: the uploaded source,
// the persisted index, and all podcast audio. Each delete is attempted
// even when an earlier one fails.
func (f *FileService) CleanupProject(project *models.Project) {
	if err := f.RemoveIfExists(project.PDFPath); err != nil {
		log.Printf("CLEANUP WARN: %v", err)
	}
	if err := f.RemoveIfExists(project.IndexPath); err != nil {
		log.Printf("CLEANUP WARN: %v", err)
	}
	for _, podcast := range project.Podcasts {
		if err := f.RemoveIfExists(podcast.AudioPath); err != nil {
			log.Printf("CLEANUP WARN: %v", err)
		}
	}
}
