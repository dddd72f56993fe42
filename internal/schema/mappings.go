// Package schema declares index mappings and idempotent index creation.
//
// The properties index carries a custom analysis chain applied at index time:
// standard tokenizer, lowercase, ascii folding, english stopwords, domain
// synonym expansion, english stemming. The chain is deterministic and
// idempotent: analyzing already-normalized text is a no-op.
package schema

// PropertiesMapping is the mapping for the property catalog index, including
// the analysis chain, the nested nearby_amenities records, the geo point, and
// the 768-dimension cosine dense vector reserved for embeddings.
const PropertiesMapping = `{
  "settings": {
    "analysis": {
      "analyzer": {
        "property_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": [
            "lowercase",
            "asciifolding",
            "property_stop",
            "property_synonym",
            "property_stemmer"
          ]
        }
      },
      "filter": {
        "property_stop": {
          "type": "stop",
          "stopwords": "_english_"
        },
        "property_synonym": {
          "type": "synonym",
          "synonyms": [
            "apartment, flat, unit",
            "villa, house, bungalow",
            "bhk, bedroom",
            "sqft, square feet, sq ft",
            "metro, subway, train",
            "school, education, college",
            "hospital, medical, healthcare"
          ]
        },
        "property_stemmer": {
          "type": "stemmer",
          "language": "english"
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "property_id": {"type": "keyword"},
      "name": {
        "type": "text",
        "analyzer": "property_analyzer",
        "fields": {
          "keyword": {"type": "keyword"},
          "suggest": {"type": "completion", "analyzer": "simple"}
        }
      },
      "description": {"type": "text", "analyzer": "property_analyzer"},
      "property_type": {
        "type": "keyword",
        "fields": {"text": {"type": "text"}}
      },
      "bedrooms": {"type": "integer"},
      "bathrooms": {"type": "integer"},
      "floor": {"type": "integer"},
      "total_floors": {"type": "integer"},
      "area_sqft": {"type": "float"},
      "carpet_area_sqft": {"type": "float"},
      "price": {"type": "float"},
      "price_per_sqft": {"type": "float"},
      "currency": {"type": "keyword"},
      "property_status": {"type": "keyword"},
      "furnishing": {"type": "keyword"},
      "locality": {"type": "keyword", "fields": {"text": {"type": "text"}}},
      "city": {"type": "keyword", "fields": {"text": {"type": "text"}}},
      "state": {"type": "keyword"},
      "geo_location": {"type": "geo_point"},
      "geo_location_details": {
        "type": "object",
        "properties": {
          "address": {"type": "text"},
          "locality": {"type": "keyword"},
          "city": {"type": "keyword"},
          "state": {"type": "keyword"},
          "pincode": {"type": "keyword"},
          "place_id": {"type": "keyword"}
        }
      },
      "builder_name": {"type": "keyword", "fields": {"text": {"type": "text"}}},
      "project_name": {"type": "keyword", "fields": {"text": {"type": "text"}}},
      "rera_id": {"type": "keyword"},
      "amenities": {"type": "keyword"},
      "nearby_amenities": {
        "type": "nested",
        "properties": {
          "name": {"type": "text"},
          "type": {"type": "keyword"},
          "distance_km": {"type": "float"},
          "rating": {"type": "float"},
          "address": {"type": "text"},
          "place_id": {"type": "keyword"}
        }
      },
      "image_urls": {"type": "keyword"},
      "virtual_tour_url": {"type": "keyword"},
      "platform_name": {"type": "keyword", "fields": {"text": {"type": "text"}}},
      "platform_focus": {"type": "text", "analyzer": "property_analyzer"},
      "target_audience": {"type": "text", "analyzer": "property_analyzer"},
      "special_features": {"type": "text", "analyzer": "property_analyzer"},
      "ai_summary": {"type": "text"},
      "ai_highlights": {"type": "text"},
      "ai_recommendations": {"type": "text"},
      "embedding": {
        "type": "dense_vector",
        "dims": 768,
        "index": true,
        "similarity": "cosine"
      },
      "combined_text": {"type": "text"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"},
      "is_featured": {"type": "boolean"},
      "views_count": {"type": "integer"},
      "likes_count": {"type": "integer"}
    }
  }
}`

// ConversationsMapping is the mapping for chat history messages.
const ConversationsMapping = `{
  "mappings": {
    "properties": {
      "session_id": {"type": "keyword"},
      "user_id": {"type": "keyword"},
      "timestamp": {"type": "date"},
      "role": {"type": "keyword"},
      "message": {"type": "text"},
      "context": {"type": "object"},
      "search_results": {"type": "object"},
      "metadata": {"type": "object"}
    }
  }
}`

// InquiriesMapping is the mapping for contact inquiries.
const InquiriesMapping = `{
  "mappings": {
    "properties": {
      "inquiry_id": {"type": "keyword"},
      "property_id": {"type": "keyword"},
      "user_name": {"type": "text"},
      "user_email": {"type": "keyword"},
      "user_phone": {"type": "keyword"},
      "inquiry_type": {"type": "keyword"},
      "message": {"type": "text"},
      "preferred_contact_method": {"type": "keyword"},
      "budget_range": {"type": "text"},
      "move_in_date": {"type": "date"},
      "additional_requirements": {"type": "text"},
      "status": {"type": "keyword"},
      "priority": {"type": "keyword"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"},
      "property_details": {"type": "object"}
    }
  }
}`

// SiteVisitsMapping is the mapping for scheduled site visits.
const SiteVisitsMapping = `{
  "mappings": {
    "properties": {
      "visit_id": {"type": "keyword"},
      "property_id": {"type": "keyword"},
      "user_name": {"type": "text"},
      "user_email": {"type": "keyword"},
      "user_phone": {"type": "keyword"},
      "preferred_date": {"type": "date"},
      "preferred_time": {"type": "keyword"},
      "confirmed_date": {"type": "date"},
      "confirmed_time": {"type": "keyword"},
      "group_size": {"type": "integer"},
      "special_requirements": {"type": "text"},
      "status": {"type": "keyword"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"},
      "property_details": {"type": "object"}
    }
  }
}`
