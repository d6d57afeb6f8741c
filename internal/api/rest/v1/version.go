package v1

// BasePath is the route prefix of the payment API
const BasePath = "/api/payment"
