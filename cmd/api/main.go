// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
)

func main() {
	catalogServiceURL, _ := url.Parse(getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"))
	rentalServiceURL, _ := url.Parse(getEnv("RENTAL_SERVICE_URL", "http://localhost:8082"))
	shopperServiceURL, _ := url.Parse(getEnv("SHOPPER_SERVICE_URL", "http://localhost:8083"))

	catalogProxy := httputil.NewSingleHostReverseProxy(catalogServiceURL)
	rentalProxy := httputil.NewSingleHostReverseProxy(rentalServiceURL)
	shopperProxy := httputil.NewSingleHostReverseProxy(shopperServiceURL)

	http.Handle("/api/v1/catalog/", http.StripPrefix("/api/v1/catalog", catalogProxy))
	http.Handle("/api/v1/rentals/", http.StripPrefix("/api/v1/rentals", rentalProxy))
	http.Handle("/api/v1/shoppers/", http.StripPrefix("/api/v1/shoppers", shopperProxy))

	port := getEnv("PORT", "8080")
	log.Printf("API Gateway listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
