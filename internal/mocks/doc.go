// Package mocks provides centralized mock implementations for testing.
//
// Most mocks use function fields: set the field for the behaviour a test
// needs and leave the rest to the default, which is either an in-memory
// implementation or a fixed value. MockTaskStore uses testify/mock for tests
// that assert on call sequences.
//
//	tokens := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return nil, auth.ErrExpiredToken
//	    },
//	}
package mocks
