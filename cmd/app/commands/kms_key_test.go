package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/secretstore/internal/keystore/service"
	"github.com/allisson/secretstore/internal/keystore/usecase/mocks"
)

type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (service.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.KMSKeeper), args.Error(1)
}

func TestRunCreateKMSKey(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("localsecrets-generates-uri", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateKMSKey(ctx, service.NewKMSService(), logger, &out, "localsecrets", "", "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), "WARNING")
		assert.Contains(t, out.String(), `KEY_STORE_BACKEND="database"`)
		assert.Contains(t, out.String(), `KMS_PROVIDER="localsecrets"`)
		assert.Contains(t, out.String(), `KMS_KEY_URI="base64key://`)
	})

	t.Run("json-output-usable-uri", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateKMSKey(ctx, service.NewKMSService(), logger, &out, "localsecrets", "", "json")
		require.NoError(t, err)

		var result map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, "localsecrets", result["kms_provider"])

		keeper, err := service.NewKMSService().OpenKeeper(ctx, result["kms_key_uri"])
		require.NoError(t, err)
		assert.NoError(t, keeper.Close())
	})

	t.Run("existing-uri-verified", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &mocks.MockKMSKeeper{}
		uri := "awskms:///alias/secretstore"

		var probe []byte
		mockService.On("OpenKeeper", ctx, uri).Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).
			Run(func(args mock.Arguments) { probe = args.Get(1).([]byte) }).
			Return([]byte("wrapped"), nil)
		decryptCall := mockKeeper.On("Decrypt", ctx, []byte("wrapped"))
		decryptCall.Run(func(args mock.Arguments) {
			decryptCall.ReturnArguments = mock.Arguments{probe, nil}
		}).Return(nil, nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateKMSKey(ctx, mockService, logger, &out, "awskms", uri, "text")

		require.NoError(t, err)
		assert.NotContains(t, out.String(), "WARNING")
		assert.Contains(t, out.String(), `KMS_KEY_URI="awskms:///alias/secretstore"`)
		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("missing-provider", func(t *testing.T) {
		err := RunCreateKMSKey(ctx, &MockKMSService{}, logger, &bytes.Buffer{}, "", "", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--kms-provider is required")
	})

	t.Run("cloud-provider-requires-uri", func(t *testing.T) {
		err := RunCreateKMSKey(ctx, &MockKMSService{}, logger, &bytes.Buffer{}, "gcpkms", "", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--kms-key-uri is required for provider gcpkms")
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunCreateKMSKey(ctx, &MockKMSService{}, logger, &bytes.Buffer{}, "localsecrets", "", "xml")
		require.Error(t, err)
	})

	t.Run("open-keeper-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "hashivault://secretstore").Return(nil, errors.New("vault sealed"))

		var out bytes.Buffer
		err := RunCreateKMSKey(ctx, mockService, logger, &out, "hashivault", "hashivault://secretstore", "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
		assert.Empty(t, out.String())
	})

	t.Run("encrypt-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &mocks.MockKMSKeeper{}
		mockService.On("OpenKeeper", ctx, "gcpkms://key").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.Anything).Return(nil, errors.New("permission denied"))
		mockKeeper.On("Close").Return(nil)

		err := RunCreateKMSKey(ctx, mockService, logger, &bytes.Buffer{}, "gcpkms", "gcpkms://key", "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to encrypt with KMS")
		mockKeeper.AssertExpectations(t)
	})

	t.Run("round-trip-mismatch", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &mocks.MockKMSKeeper{}
		mockService.On("OpenKeeper", ctx, "gcpkms://key").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.Anything).Return([]byte("wrapped"), nil)
		mockKeeper.On("Decrypt", ctx, []byte("wrapped")).Return([]byte("something else"), nil)
		mockKeeper.On("Close").Return(nil)

		err := RunCreateKMSKey(ctx, mockService, logger, &bytes.Buffer{}, "gcpkms", "gcpkms://key", "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "different data")
	})
}
