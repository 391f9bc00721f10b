package services

import (
	"RestaurantRoulette/models"
	"fmt"
)

func locationPrompt(latitude, longitude float64) string {
	return fmt.Sprintf(`Based on the provided latitude (%v) and longitude (%v), identify the corresponding city, state/province, and specific neighborhood.

Respond with ONLY a JSON object in this exact format:
{
  "city": "city name",
  "state": "two-letter state/province code",
  "neighborhood": "specific neighborhood name"
}

Do not include any other text or formatting.`, latitude, longitude)
}

func neighborhoodsPrompt(city string) string {
	return fmt.Sprintf(`Provide a list of %d well-known and distinct neighborhoods for the city: %q. Focus on areas known for dining and restaurants.

Respond with ONLY a JSON object in this exact format:
{
  "neighborhoods": ["neighborhood1", "neighborhood2", ...]
}

Do not include any other text or formatting.`, maxNeighborhoods, city)
}

func neighborhoodPhrase(neighborhood string) string {
	if neighborhood == models.Any {
		return "any neighborhood in the city"
	}
	return "specifically in " + neighborhood + " neighborhood"
}

func cuisinePhrase(cuisine string) string {
	if cuisine == models.Any {
		return "any cuisine type"
	}
	return cuisine + " cuisine"
}

func pricePhrase(price string) string {
	if price == models.Any {
		return "any price range"
	}
	return price + " price range"
}

func restaurantPrompt(cuisine, price, neighborhood, city string) string {
	return fmt.Sprintf(`You are a local restaurant expert. I need you to find ONE real, currently operating restaurant in %[1]s that matches these criteria:

- City: %[1]q
- Neighborhood: %[2]q
- Cuisine: %[3]q
- Price: %[4]q

CRITICAL REQUIREMENTS:
1. The restaurant MUST be a real, currently operating establishment
2. The address MUST be the actual, correct street address
3. The neighborhood MUST match where the restaurant actually is located
4. Do not make up or approximate any information
5. If you cannot find a real restaurant that matches the criteria exactly, return the %[5]s response below

If you cannot find a real restaurant matching these criteria, return this exact JSON:
{
  "name": "%[5]s",
  "description": "Could not find a restaurant matching the criteria",
  "address": "N/A",
  "rating": 0,
  "latitude": 0,
  "longitude": 0,
  "imageUrls": [],
  "cuisine": "Any",
  "price": "Any",
  "neighborhood": "Any",
  "menu": []
}

If you find a real restaurant, respond with ONLY a JSON object in this exact format:
{
  "name": "exact restaurant name",
  "description": "brief description of what makes this restaurant special",
  "address": "complete and accurate street address including house number",
  "rating": 4.2,
  "latitude": accurate_latitude,
  "longitude": accurate_longitude,
  "imageUrls": ["url1", "url2", "url3"],
  "cuisine": "actual cuisine type",
  "price": "$, $$, $$$, or $$$$",
  "neighborhood": "actual neighborhood where restaurant is located",
  "menu": [
    {
      "name": "popular dish name",
      "description": "dish description",
      "price": "actual price if known, or estimated price like €15.50"
    }
  ]
}

Include 2-4 real menu items and 3-5 high-quality image URLs if available. Ensure all information is factually correct.`,
		city, neighborhoodPhrase(neighborhood), cuisinePhrase(cuisine), pricePhrase(price), models.NoRestaurantFound)
}
