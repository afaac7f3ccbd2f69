package models

// Category is a user-facing grouping of provider place types
type Category struct {
	Key   string
	Types []string
}

// PlaceCategories is the fixed category table in picker order
var PlaceCategories = []Category{
	{Key: "automotive", Types: []string{
		"car_dealer", "car_rental", "car_repair", "car_wash", "electric_vehicle_charging_station",
		"gas_station", "motorcycle_dealer", "parking", "rest_stop",
	}},
	{Key: "business", Types: []string{"corporate_office", "farm", "ranch"}},
	{Key: "culture", Types: []string{
		"art_gallery", "art_studio", "auditorium", "cultural_landmark", "historical_place",
		"monument", "museum", "performing_arts_theater", "sculpture",
	}},
	{Key: "education", Types: []string{
		"library", "preschool", "primary_school", "school", "secondary_school", "university",
	}},
	{Key: "entertainmentAndRecreation", Types: []string{
		"adventure_sports_center", "amphitheatre", "amusement_center", "amusement_park", "aquarium",
		"banquet_hall", "barbecue_area", "botanical_garden", "bowling_alley", "casino",
		"childrens_camp", "comedy_club", "community_center", "convention_center", "cultural_center",
		"cycling_park", "dance_hall", "dog_park", "event_venue", "ferris_wheel", "garden",
		"hiking_area", "historical_landmark", "internet_cafe", "karaoke", "marina", "movie_rental",
		"movie_theater", "national_park", "night_club", "observation_deck", "off_roading_area",
		"opera_house", "park", "philharmonic_hall", "picnic_ground", "planetarium", "plaza",
		"roller_coaster", "skateboard_park", "state_park", "tourist_attraction", "video_arcade",
		"visitor_center", "water_park", "wedding_venue", "wildlife_park", "wildlife_refuge", "zoo",
	}},
	{Key: "facilities", Types: []string{"public_bath", "public_bathroom", "stable"}},
	{Key: "finance", Types: []string{"accounting", "atm", "bank"}},
	{Key: "foodAndDrink", Types: []string{
		"asian_restaurant", "bakery", "bar", "bar_and_grill", "barbecue_restaurant",
		"breakfast_restaurant", "brunch_restaurant", "buffet_restaurant", "cafe", "cat_cafe",
		"chinese_restaurant", "chocolate_shop", "coffee_shop", "dessert_restaurant", "dessert_shop",
		"diner", "donut_shop", "fast_food_restaurant", "fine_dining_restaurant", "food_court",
		"french_restaurant", "hamburger_restaurant", "ice_cream_shop", "italian_restaurant",
		"japanese_restaurant", "korean_restaurant", "mexican_restaurant",
		"middle_eastern_restaurant", "pizza_restaurant", "pub", "ramen_restaurant", "restaurant",
		"sandwich_shop", "seafood_restaurant", "steak_house", "sushi_restaurant", "tea_house",
		"vegan_restaurant", "vegetarian_restaurant", "wine_bar",
	}},
	{Key: "geographicalAreas", Types: []string{
		"administrative_area_level_1", "administrative_area_level_2", "country", "locality",
		"postal_code", "school_district",
	}},
	{Key: "government", Types: []string{
		"city_hall", "courthouse", "embassy", "fire_station", "government_office",
		"local_government_office", "neighborhood_police_station", "police", "post_office",
	}},
	{Key: "healthAndWellness", Types: []string{
		"chiropractor", "dental_clinic", "dentist", "doctor", "drugstore", "hospital", "massage",
		"medical_lab", "pharmacy", "physiotherapist", "sauna", "skin_care_clinic", "spa",
		"tanning_studio", "wellness_center", "yoga_studio",
	}},
	{Key: "housing", Types: []string{
		"apartment_building", "apartment_complex", "condominium_complex", "housing_complex",
	}},
	{Key: "lodging", Types: []string{
		"bed_and_breakfast", "budget_japanese_inn", "campground", "camping_cabin", "cottage",
		"extended_stay_hotel", "guest_house", "hostel", "hotel", "inn", "japanese_inn", "lodging",
		"mobile_home_park", "motel", "private_guest_room", "resort_hotel", "rv_park",
	}},
	{Key: "naturalFeatures", Types: []string{"beach"}},
	{Key: "placesOfWorship", Types: []string{"church", "hindu_temple", "mosque", "synagogue"}},
	{Key: "services", Types: []string{
		"astrologer", "barber_shop", "beautician", "beauty_salon", "body_art_service",
		"catering_service", "cemetery", "child_care_agency", "consultant", "courier_service",
		"electrician", "florist", "food_delivery", "foot_care", "funeral_home", "hair_care",
		"hair_salon", "lawyer", "locksmith", "makeup_artist", "moving_company", "nail_salon",
		"painter", "plumber", "psychic", "real_estate_agency", "roofing_contractor", "storage",
		"summer_camp_organizer", "tailor", "telecommunications_service_provider", "tour_agency",
		"tourist_information_center", "travel_agency", "veterinary_care",
	}},
	{Key: "shopping", Types: []string{
		"asian_grocery_store", "auto_parts_store", "bicycle_store", "book_store", "butcher_shop",
		"cell_phone_store", "clothing_store", "convenience_store", "department_store",
		"discount_store", "electronics_store", "food_store", "furniture_store", "gift_shop",
		"grocery_store", "hardware_store", "home_goods_store", "home_improvement_store",
		"jewelry_store", "liquor_store", "market", "pet_store", "shoe_store", "shopping_mall",
		"sporting_goods_store", "store", "supermarket", "warehouse_store", "wholesaler",
	}},
	{Key: "sports", Types: []string{
		"arena", "athletic_field", "fishing_charter", "fishing_pond", "fitness_center",
		"golf_course", "gym", "ice_skating_rink", "playground", "ski_resort",
		"sports_activity_location", "sports_club", "sports_coaching", "sports_complex", "stadium",
		"swimming_pool",
	}},
	{Key: "transportation", Types: []string{
		"airport", "airstrip", "bus_station", "bus_stop", "ferry_terminal", "heliport",
		"international_airport", "light_rail_station", "park_and_ride", "subway_station",
		"taxi_stand", "train_station", "transit_depot", "transit_station", "truck_stop",
	}},
}

var categoryIndex = func() map[string][]string {
	index := make(map[string][]string, len(PlaceCategories))
	for _, category := range PlaceCategories {
		index[category.Key] = category.Types
	}
	return index
}()

// IsKnownCategory reports whether the key is in the category table
func IsKnownCategory(key string) bool {
	_, ok := categoryIndex[key]
	return ok
}

// CategoryTypes returns the provider place types of a category
func CategoryTypes(key string) ([]string, bool) {
	types, ok := categoryIndex[key]
	if !ok {
		return nil, false
	}
	return append([]string{}, types...), true
}

// ExpandCategories concatenates the place types of every selected category in order.
// Duplicates across categories are kept and unknown keys are skipped.
func ExpandCategories(keys []string) []string {
	types := make([]string, 0)
	for _, key := range keys {
		types = append(types, categoryIndex[key]...)
	}
	return types
}
