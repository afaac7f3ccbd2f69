package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"goaround-bot/internal/models"
)

// QRService provides QR code generation functionality
type QRService struct {
	size   int
	logger *logrus.Logger
}

// NewQRService creates a new QR code service
func NewQRService(logger *logrus.Logger) *QRService {
	return &QRService{
		size:   256,
		logger: logger,
	}
}

// GenerateQR generates a PNG QR code for the given text
func (s *QRService) GenerateQR(text string) ([]byte, error) {
	s.logger.Debugf("Generating QR code for text: %s", text)

	qr, err := qrcode.Encode(text, qrcode.Medium, s.size)
	if err != nil {
		s.logger.Errorf("Failed to generate QR code: %v", err)
		return nil, err
	}

	return qr, nil
}

// PlaceQR encodes the map link of a place
func (s *QRService) PlaceQR(place *models.Place) ([]byte, error) {
	link := place.GoogleMapsURI
	if link == "" && place.GoogleMapsLinks != nil {
		link = place.GoogleMapsLinks.PlaceURI
	}
	if link == "" {
		return nil, fmt.Errorf("place %s has no map link", place.ID)
	}
	return s.GenerateQR(link)
}
