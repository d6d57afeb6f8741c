// Package firebase connects the service to the Firebase project of the mobile
// client: ID token verification for API callers and payment status updates on
// orders stored in the Realtime Database.
package firebase
